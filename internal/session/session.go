// Package session tracks one user's iterative design conversation: the
// selected template, the current document, the message transcript, and
// an input state machine that keeps voice capture and generation from
// overlapping. A Session is the client-side counterpart of the
// stateless generation endpoint — it carries everything the endpoint
// needs replayed on each round.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"uigen/internal/models"
)

// State is the session's input state. Transitions:
// Idle -> Listening (voice capture), Listening -> Idle (capture ends),
// Idle/Listening -> Generating (submit), Generating -> Idle (round
// done, success or failure).
type State int

const (
	StateIdle State = iota
	StateListening
	StateGenerating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateGenerating:
		return "generating"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrBusy rejects input while a generation round is in flight.
	ErrBusy = errors.New("session: generation already in progress")

	// ErrEmptyInput rejects submissions that are empty after trimming.
	ErrEmptyInput = errors.New("session: empty input")

	// ErrNoTemplate rejects submissions before a template is selected.
	ErrNoTemplate = errors.New("session: no template selected")
)

// noTemplateGuidance is appended to the transcript when the user
// submits before picking a template.
const noTemplateGuidance = "Pick a template first, then tell me what you'd like to build."

// Failure messages by cause. The transcript gets one of these instead
// of a raw error string.
const (
	msgOffline     = "It looks like you're offline. Check your connection and try again."
	msgUnreachable = "I couldn't reach the design service. Please try again in a moment."
	msgGeneric     = "Something went wrong generating your design. Your current design is untouched, so feel free to try again."
)

// Backend is the generation endpoint the session talks to.
type Backend interface {
	CreateDesign(ctx context.Context, req models.CreateDesignRequest) (*models.GenerationResult, error)
}

// Session holds one design conversation. Safe for concurrent use: the
// double-submit guard depends on state checks being atomic with state
// changes.
type Session struct {
	backend Backend

	mu          sync.Mutex
	state       State
	template    *models.Template
	currentHTML string
	imageURL    string
	refImage    string
	messages    []models.ChatMessage
	interim     *models.ChatMessage
}

// New creates an idle session with an empty transcript.
func New(backend Backend) *Session {
	return &Session{backend: backend}
}

// SelectTemplate binds a template. Allowed any time except while
// generating; the current design is kept so a template switch can
// restyle rather than restart.
func (s *Session) SelectTemplate(t *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	s.template = t
	return nil
}

// AttachReferenceImage stages a base64 data URL to accompany the next
// submission. The image is one-shot: it rides exactly one round.
func (s *Session) AttachReferenceImage(dataURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	s.refImage = dataURL
	return nil
}

// StartListening begins a voice capture. Rejected while generating.
func (s *Session) StartListening() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateGenerating {
		return ErrBusy
	}
	s.state = StateListening
	return nil
}

// UpdateTranscript upserts the live interim transcription message.
// Only meaningful while listening; ignored otherwise.
func (s *Session) UpdateTranscript(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening {
		return
	}
	if s.interim == nil {
		m := models.NewChatMessage(models.RoleUser, text)
		m.Interim = true
		s.interim = &m
		s.messages = append(s.messages, m)
		return
	}
	s.interim.Text = text
	s.messages[len(s.messages)-1] = *s.interim
}

// StopListening ends voice capture without submitting. The interim
// message, if any, is discarded.
func (s *Session) StopListening() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateListening {
		return
	}
	s.dropInterim()
	s.state = StateIdle
}

// Submit runs one generation round with the given utterance. The
// transcript gains the finalized user message and exactly one bot
// reply; on failure the current design is untouched. Submit blocks for
// the duration of the round; concurrent submits get ErrBusy.
func (s *Session) Submit(ctx context.Context, text string) (*models.GenerationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateGenerating {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.dropInterim()

	if s.template == nil {
		s.messages = append(s.messages,
			models.NewChatMessage(models.RoleUser, text),
			models.NewChatMessage(models.RoleBot, noTemplateGuidance))
		s.state = StateIdle
		s.mu.Unlock()
		return nil, ErrNoTemplate
	}

	s.state = StateGenerating
	s.messages = append(s.messages, models.NewChatMessage(models.RoleUser, text))

	req := models.CreateDesignRequest{
		Text:             text,
		TemplateID:       s.template.ID,
		PreviousDesign:   s.currentHTML,
		ReferenceImage:   s.refImage,
		PreviousMessages: s.promptHistory(),
	}
	s.refImage = ""
	s.mu.Unlock()

	result, err := s.backend.CreateDesign(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle

	if err != nil {
		s.messages = append(s.messages, models.NewChatMessage(models.RoleBot, classifyFailure(err)))
		return nil, err
	}

	s.currentHTML = result.HTML
	s.imageURL = result.ImageURL
	s.messages = append(s.messages, models.NewChatMessage(models.RoleBot, result.AIResponse))
	return result, nil
}

// SetSpeaking flags one bot message as currently being spoken aloud.
// Passing speaking=true clears the flag on every other message first;
// one voice at a time.
func (s *Session) SetSpeaking(id uuid.UUID, speaking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if speaking {
			s.messages[i].Speaking = s.messages[i].ID == id
		} else if s.messages[i].ID == id {
			s.messages[i].Speaking = false
		}
	}
}

// State returns the current input state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Template returns the selected template, nil when none.
func (s *Session) Template() *models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// CurrentHTML returns the latest successfully generated document.
func (s *Session) CurrentHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentHTML
}

// ImageURL returns the preview image of the latest generation.
func (s *Session) ImageURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imageURL
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// dropInterim removes the live transcription message. Callers hold mu.
func (s *Session) dropInterim() {
	if s.interim == nil {
		return
	}
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == s.interim.ID {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.interim = nil
}

// promptHistory converts the transcript into replay turns for the
// completion service, translating the UI's "bot" role into the
// completion APIs' "assistant". Interim messages never appear here;
// dropInterim runs before any submit. Callers hold mu.
func (s *Session) promptHistory() []models.PromptMessage {
	out := make([]models.PromptMessage, 0, len(s.messages))
	for _, m := range s.messages {
		role := "user"
		if m.Role == models.RoleBot {
			role = "assistant"
		}
		out = append(out, models.PromptMessage{Role: role, Content: m.Text})
	}
	return out
}

// classifyFailure maps a round error to a user-facing message. Network
// unavailability, unreachable service, and everything else read
// differently to the user even though the recovery is the same.
func classifyFailure(err error) string {
	msg := err.Error()

	if strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network is unreachable") {
		return msgOffline
	}

	var netErr net.Error
	if strings.Contains(msg, "connection refused") ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return msgUnreachable
	}

	return msgGeneric
}
