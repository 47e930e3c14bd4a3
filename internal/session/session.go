// Package session holds per-conversation state and the repositories that
// keep it between turns.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/extractor"
	"github.com/MikeSquared-Agency/intake/internal/schema"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrUnknownMode = errors.New("unknown mode")
)

type Mode string

const (
	ModeFreeform Mode = "freeform"
	ModeScripted Mode = "scripted"
)

// ParseMode accepts "freeform" or "scripted"; empty falls back to def.
func ParseMode(s string, def Mode) (Mode, error) {
	switch Mode(s) {
	case "":
		return def, nil
	case ModeFreeform, ModeScripted:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
	}
}

type State string

const (
	StateCollecting State = "collecting"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

type Session struct {
	ID           string                    `json:"id"`
	Mode         Mode                      `json:"mode"`
	State        State                     `json:"state"`
	Conversation conversation.Conversation `json:"conversation"`
	Fields       extractor.FieldMap        `json:"fields"`
	Submitted    bool                      `json:"submitted"`

	// Question is the declared index of the scripted question awaiting an answer.
	Question int `json:"question"`

	ApplicationID string    `json:"application_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func New(mode Mode) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		State:     StateCollecting,
		Fields:    make(extractor.FieldMap),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PendingQuestion returns the scripted question awaiting an answer. There is
// none outside scripted collection or once the asked field has been filled.
func (s *Session) PendingQuestion() (schema.FieldDefinition, bool) {
	if s.Mode != ModeScripted || s.State != StateCollecting {
		return schema.FieldDefinition{}, false
	}
	def, ok := schema.At(s.Question)
	if !ok || s.Fields.Has(def.Field) {
		return schema.FieldDefinition{}, false
	}
	return def, true
}

// Clone returns a deep copy; repositories never hand out shared state.
func (s *Session) Clone() *Session {
	out := *s
	out.Conversation.Turns = append([]conversation.Turn(nil), s.Conversation.Turns...)
	if s.Fields != nil {
		out.Fields = s.Fields.Clone()
	}
	return &out
}

// Repository stores sessions by id.
type Repository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
