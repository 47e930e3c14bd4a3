package application

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/schema"
)

func completeFields() map[string]any {
	return map[string]any{
		schema.Name:           "John Smith",
		schema.Phone:          "5551234567",
		schema.Email:          "john@x.com",
		schema.Address:        "123 Main Street",
		schema.InvestmentType: "Rental Property",
		schema.LoanAmount:     250000,
		schema.LoanPurpose:    "purchase",
		schema.TermMonths:     24,
	}
}

func TestToDocument_Complete(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	turns := []conversation.Turn{
		{Text: "Hi!", Sender: conversation.SenderBot, At: now},
		{Text: "John Smith", Sender: conversation.SenderUser, Field: schema.Name, At: now},
	}

	doc, err := ToDocument(completeFields(), Meta{SessionID: "s-1", Mode: "freeform", Turns: turns, Now: now})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ApplicantInfo.Name != "John Smith" || doc.ApplicantInfo.Phone != "5551234567" || doc.ApplicantInfo.Email != "john@x.com" {
		t.Errorf("unexpected applicant info %+v", doc.ApplicantInfo)
	}
	if doc.PropertyInfo.Address != "123 Main Street" {
		t.Errorf("unexpected address %q", doc.PropertyInfo.Address)
	}
	if doc.LoanDetails.LoanAmount != 250000 || doc.LoanDetails.LoanPurpose != "purchase" || doc.LoanDetails.InvestmentType != "Rental Property" {
		t.Errorf("unexpected loan details %+v", doc.LoanDetails)
	}
	if doc.RequestedTerms.TermMonths != 24 {
		t.Errorf("expected term 24, got %d", doc.RequestedTerms.TermMonths)
	}
	if doc.ApplicationStatus.Status != StatusSubmitted || !doc.ApplicationStatus.CreatedAt.Equal(now) {
		t.Errorf("unexpected status %+v", doc.ApplicationStatus)
	}
	if doc.SessionID != "s-1" || doc.Mode != "freeform" || !doc.CreatedAt.Equal(now) {
		t.Errorf("unexpected metadata %+v", doc)
	}
	if len(doc.ConversationLog) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(doc.ConversationLog))
	}
	if e := doc.ConversationLog[1]; e.Sender != "user" || e.Message != "John Smith" || e.FieldCollected != schema.Name {
		t.Errorf("unexpected log entry %+v", e)
	}
}

func TestToDocument_NumericJSON(t *testing.T) {
	doc, err := ToDocument(completeFields(), Meta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["loan_details"]["loan_amount"].(float64); !ok {
		t.Errorf("loan_amount should be a JSON number, got %T", out["loan_details"]["loan_amount"])
	}
	if _, ok := out["requested_terms"]["term_months"].(float64); !ok {
		t.Errorf("term_months should be a JSON number, got %T", out["requested_terms"]["term_months"])
	}
}

func TestToDocument_CoercesStrings(t *testing.T) {
	fields := completeFields()
	fields[schema.LoanAmount] = "$1,250,000"
	fields[schema.TermMonths] = "36 months"

	doc, err := ToDocument(fields, Meta{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.LoanDetails.LoanAmount != 1250000 {
		t.Errorf("expected 1250000, got %d", doc.LoanDetails.LoanAmount)
	}
	if doc.RequestedTerms.TermMonths != 36 {
		t.Errorf("expected 36, got %d", doc.RequestedTerms.TermMonths)
	}
}

func TestToDocument_FailsLoudly(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  error
	}{
		{"non-numeric amount", schema.LoanAmount, "a lot", ErrNotNumeric},
		{"fractional amount", schema.LoanAmount, 1000.5, ErrNotNumeric},
		{"absent term", schema.TermMonths, nil, ErrMissing},
		{"blank term", schema.TermMonths, "  ", ErrMissing},
		{"wordy term", schema.TermMonths, "two years", ErrNotNumeric},
		{"negative amount", schema.LoanAmount, "-5001", ErrNotPositive},
		{"zero amount", schema.LoanAmount, 0, ErrNotPositive},
		{"negative term", schema.TermMonths, -12, ErrNotPositive},
		{"huge float amount", schema.LoanAmount, 1e300, ErrNotNumeric},
		{"absent email", schema.Email, nil, ErrMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := completeFields()
			if tt.value == nil {
				delete(fields, tt.field)
			} else {
				fields[tt.field] = tt.value
			}

			_, err := ToDocument(fields, Meta{})
			if err == nil {
				t.Fatal("expected error")
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %T", err)
			}
			if fe.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, fe.Field)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAmount_FromDecodedJSON(t *testing.T) {
	n, err := Amount(float64(75000))
	if err != nil || n != 75000 {
		t.Errorf("expected 75000, got %d (%v)", n, err)
	}
}

func TestPreApproval(t *testing.T) {
	tests := []struct {
		amount, term int
		want         string
	}{
		{250000, 24, "You're pre-approved for $200,000 at 10% over 24 months."},
		{12345, 120, "You're pre-approved for $9,876 at 10% over 120 months."},
		{12346, 6, "You're pre-approved for $9,876.8 at 10% over 6 months."},
		{1250001, 360, "You're pre-approved for $1,000,000.8 at 10% over 360 months."},
		{6001, 12, "You're pre-approved for $4,800.8 at 10% over 12 months."},
	}

	for _, tt := range tests {
		d := Document{
			LoanDetails:    LoanDetails{LoanAmount: tt.amount},
			RequestedTerms: RequestedTerms{TermMonths: tt.term},
		}
		if got := d.PreApproval(); got != tt.want {
			t.Errorf("amount %d: expected %q, got %q", tt.amount, tt.want, got)
		}
	}
}

func TestPreApproval_LargeAmountDoesNotOverflow(t *testing.T) {
	d := Document{
		LoanDetails:    LoanDetails{LoanAmount: 999999999999999999},
		RequestedTerms: RequestedTerms{TermMonths: 360},
	}

	want := "You're pre-approved for $799,999,999,999,999,999.2 at 10% over 360 months."
	if got := d.PreApproval(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
