package tutor

import (
	"context"
	"fmt"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pocketprof/profreplay/internal/core"
	"github.com/pocketprof/profreplay/internal/session"
	"github.com/pocketprof/profreplay/pkg/log"
)

// Controller mediates one tutoring session over one live connection. Commands
// are processed one at a time by the connection's read loop, so the controller
// itself needs no locking. History lives here and dies with the connection.
type Controller struct {
	narrator core.Narrator
	synth    core.Synthesizer
	store    *session.Store
	nav      Navigator
	emitter  Emitter

	voiceID string

	sessionID  string
	knowledge  core.Knowledge
	slideCount int
	active     bool
	history    *History
}

type Deps struct {
	Narrator     core.Narrator
	Synthesizer  core.Synthesizer
	Store        *session.Store
	Navigator    Navigator
	VoiceID      string
	HistoryLimit int
}

func NewController(deps Deps, emitter Emitter) *Controller {
	return &Controller{
		narrator: deps.Narrator,
		synth:    deps.Synthesizer,
		store:    deps.Store,
		nav:      deps.Navigator,
		emitter:  emitter,
		voiceID:  deps.VoiceID,
		history:  NewHistory(deps.HistoryLimit),
	}
}

// Start begins a tutoring session: opening narration for slide 0, synthesized
// speech, then the ordered event pair — tutor_started always first, a
// navigate_slide only when the narration carries a target.
func (c *Controller) Start(ctx context.Context, knowledge core.Knowledge, slideCount int) error {
	c.sessionID = shortuuid.New()
	c.knowledge = knowledge.Normalize()
	c.slideCount = slideCount
	c.history.Reset()
	c.active = true

	log.FromCtx(ctx).Info().Str("tutor_session", c.sessionID).Int("slides", slideCount).Msg("starting tutor")

	narration, err := c.narrator.Narrate(ctx, core.NarrationRequest{
		Knowledge:  c.knowledge,
		SlideIndex: 0,
	})
	if err != nil {
		return fmt.Errorf("narration: %w", err)
	}

	audio, err := c.synth.Synthesize(ctx, narration.Speech, c.voiceID)
	if err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}

	target := c.boundedTarget(narration.TargetSlide)
	if err := c.emitter.Emit(TutorStarted{
		Type:         EventTutorStarted,
		SessionID:    c.sessionID,
		SpeechText:   narration.Speech,
		AudioPayload: audio,
		TargetSlide:  target,
	}); err != nil {
		return err
	}
	return c.emitNavigation(target)
}

// Question answers a student question in the context of the current session,
// appends the turn to the bounded history, and mirrors Start's event ordering.
func (c *Controller) Question(ctx context.Context, question string, currentSlide int) error {
	if !c.active {
		return fmt.Errorf("tutor session not started")
	}

	log.FromCtx(ctx).Info().Str("tutor_session", c.sessionID).Int("slide", currentSlide).Msg("answering question")

	answer, err := c.narrator.Answer(ctx, core.AnswerRequest{
		Question:   question,
		Knowledge:  c.knowledge,
		SlideIndex: currentSlide,
		History:    c.history.Turns(),
	})
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}
	c.history.Append(question, answer.Speech)

	audio, err := c.synth.Synthesize(ctx, answer.Speech, c.voiceID)
	if err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}

	target := c.boundedTarget(answer.TargetSlide)
	if err := c.emitter.Emit(TutorResponse{
		Type:         EventTutorResponse,
		Question:     question,
		AnswerText:   answer.Speech,
		AudioPayload: audio,
		TargetSlide:  target,
	}); err != nil {
		return err
	}
	return c.emitNavigation(target)
}

// Interrupt only acknowledges: stopping playback is the client's job, and an
// in-flight provider call is deliberately left to complete and emit its event.
func (c *Controller) Interrupt(ctx context.Context) error {
	return c.emitter.Emit(Interrupted{
		Type:    EventInterrupted,
		Message: "Audio playback interrupted",
	})
}

// Navigate delegates to the navigation executor and reports its result.
func (c *Controller) Navigate(ctx context.Context, slideIndex int) error {
	result, err := c.nav.Navigate(ctx, slideIndex)
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return c.emitter.Emit(SlideNavigated{
		Type:       EventSlideNavigated,
		SlideIndex: slideIndex,
		Result:     result,
	})
}

// BindSession attaches the connection to a previously uploaded session,
// loading its knowledge document from the store. A bound session accepts
// questions without an explicit start.
func (c *Controller) BindSession(ctx context.Context, sessionID string) error {
	sess, ok := c.store.Get(sessionID)
	if !ok {
		return fmt.Errorf("session %s not found", sessionID)
	}
	c.sessionID = sess.ID
	c.knowledge = sess.Knowledge
	c.slideCount = sess.SlideCount()
	c.active = true

	log.FromCtx(ctx).Info().Str("session", sessionID).Msg("connection bound to session")
	return nil
}

// Close clears per-connection state when the transport goes away.
func (c *Controller) Close() {
	c.history.Reset()
	c.active = false
}

// HistoryLen reports the current number of stored turns.
func (c *Controller) HistoryLen() int {
	return c.history.Len()
}

// boundedTarget drops a navigation target pointing past the known deck.
func (c *Controller) boundedTarget(target *int) *int {
	if target == nil {
		return nil
	}
	if *target < 0 || (c.slideCount > 0 && *target >= c.slideCount) {
		return nil
	}
	return target
}

func (c *Controller) emitNavigation(target *int) error {
	if target == nil {
		return nil
	}
	return c.emitter.Emit(NavigateSlide{
		Type:       EventNavigateSlide,
		SlideIndex: *target,
	})
}
