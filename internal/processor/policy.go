package processor

import (
	"github.com/MikeSquared-Agency/intake/internal/session"
)

// Action is the next step the processor takes for a session.
type Action int

const (
	// ActionAskModel asks the hosted model to phrase the next question.
	ActionAskModel Action = iota
	// ActionAskScripted asks the next declared question verbatim.
	ActionAskScripted
	// ActionSubmit maps and stores the application.
	ActionSubmit
	// ActionWait answers while a submission is still being written.
	ActionWait
	// ActionAcknowledge answers a session that has already submitted.
	ActionAcknowledge
)

func (a Action) String() string {
	switch a {
	case ActionAskModel:
		return "ask_model"
	case ActionAskScripted:
		return "ask_scripted"
	case ActionSubmit:
		return "submit"
	case ActionWait:
		return "wait"
	case ActionAcknowledge:
		return "acknowledge"
	default:
		return "unknown"
	}
}

// Decide picks the next action from the session's current fields, mode and
// submission state. A session leaves collection only when every field is
// present and it has not submitted yet.
func Decide(s *session.Session) Action {
	switch {
	case s.State == session.StateSubmitting:
		return ActionWait
	case s.Submitted || s.State == session.StateCompleted:
		return ActionAcknowledge
	case s.Fields.Complete():
		return ActionSubmit
	case s.Mode == session.ModeScripted:
		return ActionAskScripted
	default:
		return ActionAskModel
	}
}
