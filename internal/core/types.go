package core

import "time"

const (
	AppName      = "ProfReplay"
	AppUserAgent = "ProfReplay-Backend/0.1"
	AppVersion   = "0.1.0"
)

// Section is one titled unit of a structured lecture.
type Section struct {
	Title            string   `json:"title"`
	Concepts         []string `json:"concepts"`
	EquationsLaTeX   []string `json:"equations_latex"`
	StudentQuestions []string `json:"student_questions"`
	Clarifications   []string `json:"clarifications"`
}

// Knowledge is the structured extraction of a lecture transcript: a summary,
// the main takeaways and the ordered sections. All text is free-form.
type Knowledge struct {
	Summary        string    `json:"summary"`
	KeyDefinitions []string  `json:"key_definitions"`
	Sections       []Section `json:"sections"`
}

// Normalize fills absent fields so downstream code never sees nil slices,
// regardless of how sloppy a provider's JSON was.
func (k Knowledge) Normalize() Knowledge {
	if k.KeyDefinitions == nil {
		k.KeyDefinitions = []string{}
	}
	if k.Sections == nil {
		k.Sections = []Section{}
	}
	for i := range k.Sections {
		s := &k.Sections[i]
		if s.Concepts == nil {
			s.Concepts = []string{}
		}
		if s.EquationsLaTeX == nil {
			s.EquationsLaTeX = []string{}
		}
		if s.StudentQuestions == nil {
			s.StudentQuestions = []string{}
		}
		if s.Clarifications == nil {
			s.Clarifications = []string{}
		}
	}
	return k
}

// Narration is spoken tutor output plus an optional slide to move to.
// TargetSlide is 0-based; nil means no navigation side effect.
type Narration struct {
	Speech      string `json:"speech"`
	TargetSlide *int   `json:"navigate_to_slide,omitempty"`
}

// Turn is one entry of a tutoring conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds the processed artifacts of one uploaded lecture.
// Slides are opaque image payloads addressed by 0-based index.
type Session struct {
	ID             string
	Transcript     string
	Knowledge      Knowledge
	Slides         [][]byte
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

func (s Session) SlideCount() int {
	return len(s.Slides)
}
