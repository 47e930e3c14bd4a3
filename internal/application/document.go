// Package application maps a completed field set onto the nested document
// written to the application store.
package application

import (
	"time"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
)

const (
	StatusSubmitted = "submitted"
	submittedNotes  = "Initial application submitted via AI agent"
)

// Document is the stored loan application. loan_amount and term_months are
// always numeric.
type Document struct {
	ApplicantInfo     ApplicantInfo  `json:"applicant_info"`
	PropertyInfo      PropertyInfo   `json:"property_info"`
	LoanDetails       LoanDetails    `json:"loan_details"`
	RequestedTerms    RequestedTerms `json:"requested_terms"`
	ApplicationStatus Status         `json:"application_status"`
	ConversationLog   []LogEntry     `json:"conversation_log"`
	CreatedAt         time.Time      `json:"created_at"`
	SessionID         string         `json:"session_id"`
	Mode              string         `json:"mode"`
}

type ApplicantInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type PropertyInfo struct {
	Address string `json:"address"`
}

type LoanDetails struct {
	InvestmentType string `json:"investment_type"`
	LoanAmount     int    `json:"loan_amount"`
	LoanPurpose    string `json:"loan_purpose"`
}

type RequestedTerms struct {
	TermMonths int `json:"term_months"`
}

type Status struct {
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LogEntry is one transcript turn as it is embedded in the document.
type LogEntry struct {
	Sender         string    `json:"sender"`
	Message        string    `json:"message"`
	FieldCollected string    `json:"field_collected,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Meta carries the session context stored alongside the fields.
type Meta struct {
	SessionID string
	Mode      string
	Turns     []conversation.Turn
	Now       time.Time
}

func conversationLog(turns []conversation.Turn) []LogEntry {
	log := make([]LogEntry, len(turns))
	for i, t := range turns {
		log[i] = LogEntry{
			Sender:         string(t.Sender),
			Message:        t.Text,
			FieldCollected: t.Field,
			Timestamp:      t.At,
		}
	}
	return log
}
