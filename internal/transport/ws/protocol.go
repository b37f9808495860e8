package ws

import "github.com/pocketprof/profreplay/internal/core"

// Inbound command tags. Each client frame is a JSON object with a type
// discriminator and the fields the command needs; unused fields stay zero.
const (
	cmdStartTutor    = "start_tutor"
	cmdQuestion      = "question"
	cmdInterrupt     = "interrupt"
	cmdNavigateSlide = "navigate_slide"
	cmdSetSession    = "set_session"
)

type inboundFrame struct {
	Type string `json:"type"`

	// start_tutor
	Knowledge  *core.Knowledge `json:"knowledge,omitempty"`
	SlideCount int             `json:"slideCount,omitempty"`

	// question
	Question     string `json:"question,omitempty"`
	CurrentSlide int    `json:"currentSlide,omitempty"`

	// navigate_slide
	SlideIndex int `json:"slideIndex,omitempty"`

	// set_session
	SessionID string `json:"sessionId,omitempty"`
}
