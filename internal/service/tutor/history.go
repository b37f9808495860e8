package tutor

import "github.com/pocketprof/profreplay/internal/core"

// History is the bounded conversation memory of one tutoring session. It is
// owned by the controller of a single connection and never shared.
type History struct {
	turns []core.Turn
	limit int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 10
	}
	return &History{limit: limit}
}

// Append records a question/answer exchange and trims to the most recent
// limit turns.
func (h *History) Append(question, answer string) {
	h.turns = append(h.turns,
		core.Turn{Role: "user", Content: question},
		core.Turn{Role: "assistant", Content: answer},
	)
	if len(h.turns) > h.limit {
		h.turns = h.turns[len(h.turns)-h.limit:]
	}
}

// Turns returns a copy so callers cannot mutate the stored history.
func (h *History) Turns() []core.Turn {
	out := make([]core.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) Reset() {
	h.turns = nil
}
