package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/application"
	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/extractor"
	"github.com/MikeSquared-Agency/intake/internal/hermes"
	"github.com/MikeSquared-Agency/intake/internal/metrics"
	"github.com/MikeSquared-Agency/intake/internal/prompt"
	"github.com/MikeSquared-Agency/intake/internal/schema"
	"github.com/MikeSquared-Agency/intake/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Model phrases the next question from a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ApplicationWriter stores a completed application and returns its id.
type ApplicationWriter interface {
	WriteApplication(ctx context.Context, doc application.Document) (string, error)
}

// Publisher emits session and submission events.
type Publisher interface {
	Publish(subject, msgID string, data any) error
}

// Notifier tells humans about a stored application.
type Notifier interface {
	NotifyApplication(ctx context.Context, applicationID string, doc application.Document) error
}

// Deps are the collaborators of a Processor. Events and Notifier are optional.
type Deps struct {
	Sessions  session.Repository
	Extractor *extractor.Extractor
	Model     Model
	Store     ApplicationWriter
	Events    Publisher
	Notifier  Notifier
}

// Processor runs the intake conversation: it records each user turn, works
// out which fields are still missing and either asks for the next one or
// submits the application.
type Processor struct {
	sessions    session.Repository
	extractor   *extractor.Extractor
	model       Model
	store       ApplicationWriter
	events      Publisher
	notifier    Notifier
	defaultMode session.Mode
	logger      *slog.Logger
	locks       *sessionLocks
}

func New(d Deps, defaultMode session.Mode, logger *slog.Logger) *Processor {
	return &Processor{
		sessions:    d.Sessions,
		extractor:   d.Extractor,
		model:       d.Model,
		store:       d.Store,
		events:      d.Events,
		notifier:    d.Notifier,
		defaultMode: defaultMode,
		logger:      logger,
		locks:       newSessionLocks(),
	}
}

// Start opens a session in the given mode ("" selects the default) and seeds
// it with the first bot turn.
func (p *Processor) Start(ctx context.Context, mode string) (*session.Session, error) {
	m, err := session.ParseMode(mode, p.defaultMode)
	if err != nil {
		return nil, err
	}

	s := session.New(m)
	if m == session.ModeScripted {
		p.askScripted(s)
	} else {
		s.Conversation.AddBot(Greeting)
	}

	if err := p.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	metrics.SessionsStarted.WithLabelValues(string(m)).Inc()
	p.publish(hermes.SubjectSessionStarted, "", hermes.SessionStarted{
		SessionID: s.ID,
		Mode:      string(m),
		Timestamp: s.CreatedAt,
	})
	p.logger.Info("session started", "session_id", s.ID, "mode", m)
	return s, nil
}

// Get returns a snapshot of the session.
func (p *Processor) Get(ctx context.Context, id string) (*session.Session, error) {
	s, err := p.sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// Reset discards a session and its transcript.
func (p *Processor) Reset(ctx context.Context, id string) error {
	unlock := p.locks.lock(id)
	defer unlock()

	if _, err := p.Get(ctx, id); err != nil {
		return err
	}
	if err := p.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	p.logger.Info("session reset", "session_id", id)
	return nil
}

// HandleMessage processes one user turn and returns the updated session
// together with the bot turns it produced. Turns for the same session are
// handled one at a time. The caller's cancellation does not abort a turn once
// it has started.
func (p *Processor) HandleMessage(ctx context.Context, id, text string) (*session.Session, []conversation.Turn, error) {
	ctx = context.WithoutCancel(ctx)

	unlock := p.locks.lock(id)
	defer unlock()
	metrics.TurnsInFlight.Inc()
	defer metrics.TurnsInFlight.Dec()

	s, err := p.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if s.Fields == nil {
		s.Fields = make(extractor.FieldMap)
	}

	var hint string
	if s.Submitted {
		// Nothing is extracted and nothing external is called once submitted.
		s.Conversation.AddUser(text)
	} else {
		hint = p.record(s, text)
	}
	mark := s.Conversation.Len()
	action := Decide(s)
	if hint != "" && action == ActionAskScripted {
		s.Conversation.AddBot(hint)
	}

	switch action {
	case ActionAcknowledge:
		s.Conversation.AddBot(replyAlreadySubmitted)
	case ActionWait:
		s.Conversation.AddBot(replyStillSubmitting)
	case ActionSubmit:
		p.submit(ctx, s)
	case ActionAskScripted:
		p.askScripted(s)
	case ActionAskModel:
		p.askModel(ctx, s)
	}

	s.UpdatedAt = time.Now().UTC()
	if err := p.sessions.Save(ctx, s); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	metrics.TurnsProcessed.WithLabelValues(string(s.Mode), action.String()).Inc()
	p.logger.Info("turn processed",
		"session_id", s.ID,
		"action", action.String(),
		"state", s.State,
		"missing", len(s.Fields.Missing()),
	)

	return s, s.Conversation.Since(mark), nil
}

// record appends the user's turn and updates the field map. It returns a hint
// to show before re-asking when a scripted answer was rejected.
func (p *Processor) record(s *session.Session, text string) string {
	if s.Mode != session.ModeScripted {
		s.Conversation.AddUser(text)
		s.Fields = p.extractor.Extract(s.Conversation.Turns)
		return ""
	}
	return p.recordScripted(s, text)
}

func (p *Processor) recordScripted(s *session.Session, text string) string {
	def, ok := s.PendingQuestion()
	if !ok {
		// A retry after a failed write.
		s.Conversation.AddUser(text)
		return ""
	}

	answer := strings.TrimSpace(text)
	if answer == "" {
		s.Conversation.AddUser(text)
		return ""
	}

	var value any = answer
	switch {
	case def.HasOptions():
		canonical, ok := def.Option(answer)
		if !ok {
			s.Conversation.AddUser(text)
			return fmt.Sprintf(replyChooseOption, strings.Join(def.Options, ", "))
		}
		value = canonical
	case def.Field == schema.LoanAmount || def.Field == schema.TermMonths:
		n, hint := p.scriptedNumber(def.Field, answer)
		if hint != "" {
			s.Conversation.AddUser(text)
			return hint
		}
		value = n
	}

	s.Conversation.Append(conversation.Turn{Text: text, Sender: conversation.SenderUser, Field: def.Field})
	s.Fields[def.Field] = value
	return ""
}

// scriptedNumber parses an amount or term answer and holds it to the same
// bounds the free-form recognizers use. A non-empty hint means the answer was
// rejected.
func (p *Processor) scriptedNumber(field, answer string) (int, string) {
	opts := p.extractor.Options()
	if field == schema.LoanAmount {
		n, err := application.Amount(answer)
		switch {
		case err != nil && !errors.Is(err, application.ErrNotPositive):
			return 0, fmt.Sprintf(replyNotANumber, answer)
		case err != nil || !opts.AmountInRange(n):
			return 0, printer.Sprintf(replyAmountRange, extractor.LoanAmountMin+1, extractor.LoanAmountMax-1)
		}
		return n, ""
	}

	n, err := application.Term(answer)
	switch {
	case err != nil && !errors.Is(err, application.ErrNotPositive):
		return 0, fmt.Sprintf(replyNotANumber, answer)
	case err != nil || !opts.TermInRange(n):
		return 0, fmt.Sprintf(replyTermRange, opts.TermMonthsMin, opts.TermMonthsMax)
	}
	return n, ""
}

// askScripted asks the first missing field's declared question.
func (p *Processor) askScripted(s *session.Session) {
	missing := s.Fields.Missing()
	if len(missing) == 0 {
		return
	}
	def, _ := schema.Lookup(missing[0])
	s.Question = schema.Index(def.Field)
	s.Conversation.Append(conversation.Turn{Text: def.Prompt, Sender: conversation.SenderBot, Field: def.Field})
}

// askModel has the hosted model phrase the next question. Failures become a
// fixed apology turn.
func (p *Processor) askModel(ctx context.Context, s *session.Session) {
	instruction := prompt.Build(&s.Conversation, s.Fields.Filled())

	start := time.Now()
	reply, err := p.model.Generate(ctx, instruction)
	metrics.ModelLatency.Observe(time.Since(start).Seconds())

	reply = strings.TrimSpace(reply)
	switch {
	case err != nil:
		p.logger.Warn("model call failed", "session_id", s.ID, "error", err)
		metrics.ModelCalls.WithLabelValues("error").Inc()
		reply = replyModelUnavailable
	case reply == "":
		p.logger.Warn("model returned empty reply", "session_id", s.ID)
		metrics.ModelCalls.WithLabelValues("empty").Inc()
		reply = replyModelEmpty
	default:
		metrics.ModelCalls.WithLabelValues("ok").Inc()
	}
	s.Conversation.AddBot(reply)
}

func (p *Processor) publish(subject, msgID string, data any) {
	if p.events == nil {
		return
	}
	if err := p.events.Publish(subject, msgID, data); err != nil {
		p.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
