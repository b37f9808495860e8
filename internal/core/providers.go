package core

import "context"

// Transcriber turns raw lecture audio into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Structurer turns a transcript into a Knowledge document.
type Structurer interface {
	Structure(ctx context.Context, transcript string) (Knowledge, error)
}

type NarrationRequest struct {
	Knowledge  Knowledge
	SlideIndex int // 0-based
}

type AnswerRequest struct {
	Question   string
	Knowledge  Knowledge
	SlideIndex int // 0-based
	History    []Turn
}

// Narrator produces spoken tutor content: lecture narration for a slide, or
// an answer to a student question.
type Narrator interface {
	Narrate(ctx context.Context, req NarrationRequest) (Narration, error)
	Answer(ctx context.Context, req AnswerRequest) (Narration, error)
}

// Synthesizer converts text into an audio payload for a given voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// SlideRenderer rasterizes a slide deck into one image per page.
type SlideRenderer interface {
	Render(ctx context.Context, deck []byte, mimeType string) ([][]byte, error)
}
