package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/application"
	"github.com/MikeSquared-Agency/intake/internal/hermes"
	"github.com/MikeSquared-Agency/intake/internal/metrics"
	"github.com/MikeSquared-Agency/intake/internal/session"
	"github.com/MikeSquared-Agency/intake/internal/store"
)

// submit maps and stores the application. The session is marked submitted
// before the write is issued and reverted to collecting if the write fails,
// so the next turn retries.
func (p *Processor) submit(ctx context.Context, s *session.Session) {
	s.State = session.StateSubmitting
	s.Submitted = true
	if err := p.sessions.Save(ctx, s); err != nil {
		p.logger.Warn("failed to persist submitting state", "session_id", s.ID, "error", err)
	}

	doc, err := application.ToDocument(s.Fields, application.Meta{
		SessionID: s.ID,
		Mode:      string(s.Mode),
		Turns:     s.Conversation.Turns,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		p.revert(s)
		metrics.Submissions.WithLabelValues("invalid").Inc()
		p.logger.Warn("application mapping failed", "session_id", s.ID, "error", err)

		var fe *application.FieldError
		if errors.As(err, &fe) && s.Mode == session.ModeScripted {
			delete(s.Fields, fe.Field)
			if fe.Value != nil {
				s.Conversation.AddBot(fmt.Sprintf(replyNotANumber, fmt.Sprint(fe.Value)))
			}
			p.askScripted(s)
			return
		}
		s.Conversation.AddBot(replySubmitFailed)
		return
	}

	id, err := p.store.WriteApplication(ctx, doc)
	switch {
	case errors.Is(err, store.ErrDuplicateApplication):
		p.logger.Warn("application already stored", "session_id", s.ID)
	case err != nil:
		p.revert(s)
		metrics.Submissions.WithLabelValues("failed").Inc()
		p.logger.Error("application write failed", "session_id", s.ID, "error", err)
		s.Conversation.AddBot(replySubmitFailed)
		return
	}

	s.State = session.StateCompleted
	s.ApplicationID = id
	metrics.Submissions.WithLabelValues("stored").Inc()
	p.logger.Info("application submitted", "session_id", s.ID, "application_id", id)

	s.Conversation.AddBot(replySubmitting)
	s.Conversation.AddBot(doc.PreApproval())
	s.Conversation.AddBot(replySubmitted)
	s.Conversation.AddBot(replyAnythingElse)

	if id == "" {
		return
	}
	p.publish(hermes.SubjectApplicationSubmitted, id, hermes.ApplicationSubmitted{
		ApplicationID:  id,
		SessionID:      s.ID,
		Mode:           string(s.Mode),
		InvestmentType: doc.LoanDetails.InvestmentType,
		LoanPurpose:    doc.LoanDetails.LoanPurpose,
		LoanAmount:     doc.LoanDetails.LoanAmount,
		TermMonths:     doc.RequestedTerms.TermMonths,
		Timestamp:      doc.CreatedAt,
	})
	if p.notifier != nil {
		if err := p.notifier.NotifyApplication(ctx, id, doc); err != nil {
			p.logger.Warn("application notification failed", "application_id", id, "error", err)
		}
	}
}

func (p *Processor) revert(s *session.Session) {
	s.State = session.StateCollecting
	s.Submitted = false
}
