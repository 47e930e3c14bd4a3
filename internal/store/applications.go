package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MikeSquared-Agency/intake/internal/application"
)

var (
	ErrDuplicateApplication = errors.New("application already stored for session")
	ErrNotFound             = errors.New("application not found")
)

const uniqueViolation = "23505"

// StoredApplication is a document as read back from loan_applications.
type StoredApplication struct {
	ID        uuid.UUID            `json:"id"`
	Status    string               `json:"status"`
	Document  application.Document `json:"document"`
	CreatedAt time.Time            `json:"created_at"`
}

// WriteApplication stores doc and its transcript in one transaction and
// returns the new application id. A second write for the same session fails
// with ErrDuplicateApplication.
func (s *Store) WriteApplication(ctx context.Context, doc application.Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO loan_applications (id, session_id, mode, status, applicant_name, email, loan_amount, term_months, document, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, doc.SessionID, doc.Mode, doc.ApplicationStatus.Status,
		doc.ApplicantInfo.Name, doc.ApplicantInfo.Email,
		doc.LoanDetails.LoanAmount, doc.RequestedTerms.TermMonths,
		raw, doc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("insert application %s: %w", doc.SessionID, ErrDuplicateApplication)
		}
		return "", fmt.Errorf("insert application: %w", err)
	}

	rows := make([][]any, len(doc.ConversationLog))
	for i, e := range doc.ConversationLog {
		var field *string
		if e.FieldCollected != "" {
			field = &e.FieldCollected
		}
		rows[i] = []any{id, i, e.Sender, e.Message, field, e.Timestamp}
	}
	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"loan_application_turns"},
			[]string{"application_id", "seq", "sender", "message", "field_collected", "sent_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return "", fmt.Errorf("copy turns: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id.String(), nil
}

// GetApplication reads one stored application by id.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*StoredApplication, error) {
	var (
		app StoredApplication
		raw []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, status, document, created_at
		FROM loan_applications WHERE id = $1`, id,
	).Scan(&app.ID, &app.Status, &raw, &app.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &app.Document); err != nil {
		return nil, fmt.Errorf("decode application %s: %w", id, err)
	}
	return &app, nil
}
