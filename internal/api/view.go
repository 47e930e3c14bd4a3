package api

import (
	"time"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/session"
)

const (
	inputText   = "text"
	inputChoice = "choice"
)

type TurnView struct {
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	Field  string    `json:"field,omitempty"`
	At     time.Time `json:"at"`
}

// QuestionView tells a scripted client whether to render a text box or a row
// of choice buttons.
type QuestionView struct {
	Field   string   `json:"field"`
	Prompt  string   `json:"prompt"`
	Input   string   `json:"input"`
	Options []string `json:"options,omitempty"`
}

type SessionView struct {
	ID            string         `json:"id"`
	Mode          string         `json:"mode"`
	State         string         `json:"state"`
	Submitted     bool           `json:"submitted"`
	ApplicationID string         `json:"application_id,omitempty"`
	Turns         []TurnView     `json:"turns"`
	Fields        map[string]any `json:"fields"`
	Missing       []string       `json:"missing"`
	Question      *QuestionView  `json:"question,omitempty"`
}

type MessageResponse struct {
	Session SessionView `json:"session"`
	Replies []TurnView  `json:"replies"`
}

func turnViews(turns []conversation.Turn) []TurnView {
	out := make([]TurnView, len(turns))
	for i, t := range turns {
		out[i] = TurnView{Sender: string(t.Sender), Text: t.Text, Field: t.Field, At: t.At}
	}
	return out
}

func sessionView(s *session.Session) SessionView {
	fields := make(map[string]any, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	missing := s.Fields.Missing()
	if missing == nil {
		missing = []string{}
	}

	v := SessionView{
		ID:            s.ID,
		Mode:          string(s.Mode),
		State:         string(s.State),
		Submitted:     s.Submitted,
		ApplicationID: s.ApplicationID,
		Turns:         turnViews(s.Conversation.Turns),
		Fields:        fields,
		Missing:       missing,
	}

	if def, ok := s.PendingQuestion(); ok {
		q := &QuestionView{Field: def.Field, Prompt: def.Prompt, Input: inputText}
		if def.HasOptions() {
			q.Input = inputChoice
			q.Options = def.Options
		}
		v.Question = q
	}
	return v
}
