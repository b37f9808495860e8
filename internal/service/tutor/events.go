package tutor

// Outbound event vocabulary of the tutoring protocol. Every event carries a
// type discriminator plus type-specific fields; audio payloads marshal to
// base64 through encoding/json.

const (
	EventConnected      = "connected"
	EventTutorStarted   = "tutor_started"
	EventTutorResponse  = "tutor_response"
	EventNavigateSlide  = "navigate_slide"
	EventInterrupted    = "interrupted"
	EventSlideNavigated = "slide_navigated"
	EventError          = "error"
)

type Connected struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewConnected(message string) Connected {
	return Connected{Type: EventConnected, Message: message}
}

type TutorStarted struct {
	Type         string `json:"type"`
	SessionID    string `json:"sessionId"`
	SpeechText   string `json:"speechText"`
	AudioPayload []byte `json:"audioPayload"`
	TargetSlide  *int   `json:"targetSlideIndex,omitempty"`
}

type TutorResponse struct {
	Type         string `json:"type"`
	Question     string `json:"question"`
	AnswerText   string `json:"answerText"`
	AudioPayload []byte `json:"audioPayload"`
	TargetSlide  *int   `json:"targetSlideIndex,omitempty"`
}

type NavigateSlide struct {
	Type       string `json:"type"`
	SlideIndex int    `json:"slideIndex"`
}

type Interrupted struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type SlideNavigated struct {
	Type       string    `json:"type"`
	SlideIndex int       `json:"slideIndex"`
	Result     NavResult `json:"result"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

// Emitter delivers events to the connected client, in call order.
type Emitter interface {
	Emit(event any) error
}
