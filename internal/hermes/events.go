package hermes

import "time"

const (
	SubjectSessionStarted       = "intake.session.started"
	SubjectApplicationSubmitted = "intake.application.submitted"
)

// SessionStarted is published when a new intake conversation opens.
type SessionStarted struct {
	SessionID string    `json:"session_id"`
	Mode      string    `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
}

// ApplicationSubmitted is published once per session, after the application
// document has been stored.
type ApplicationSubmitted struct {
	ApplicationID  string    `json:"application_id"`
	SessionID      string    `json:"session_id"`
	Mode           string    `json:"mode"`
	InvestmentType string    `json:"investment_type"`
	LoanPurpose    string    `json:"loan_purpose"`
	LoanAmount     int       `json:"loan_amount"`
	TermMonths     int       `json:"term_months"`
	Timestamp      time.Time `json:"timestamp"`
}
