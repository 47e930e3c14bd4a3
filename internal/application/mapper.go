package application

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/schema"
)

var (
	ErrMissing     = errors.New("missing value")
	ErrNotNumeric  = errors.New("not a whole number")
	ErrNotPositive = errors.New("not a positive number")
)

// FieldError reports a field that could not be mapped.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

var termSuffixRe = regexp.MustCompile(`(?i)\s*months?\s*$`)

// ToDocument reshapes a complete field map into a Document. Absent text
// fields and non-numeric loan_amount or term_months fail with a *FieldError;
// nothing is defaulted.
func ToDocument(fields map[string]any, meta Meta) (Document, error) {
	var doc Document

	text := make(map[string]string, 6)
	for _, f := range []string{schema.Name, schema.Phone, schema.Email, schema.Address, schema.InvestmentType, schema.LoanPurpose} {
		s, err := textValue(f, fields[f])
		if err != nil {
			return doc, err
		}
		text[f] = s
	}

	amount, err := Amount(fields[schema.LoanAmount])
	if err != nil {
		return doc, err
	}
	term, err := Term(fields[schema.TermMonths])
	if err != nil {
		return doc, err
	}

	now := meta.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	doc = Document{
		ApplicantInfo: ApplicantInfo{
			Name:  text[schema.Name],
			Phone: text[schema.Phone],
			Email: text[schema.Email],
		},
		PropertyInfo: PropertyInfo{Address: text[schema.Address]},
		LoanDetails: LoanDetails{
			InvestmentType: text[schema.InvestmentType],
			LoanAmount:     amount,
			LoanPurpose:    text[schema.LoanPurpose],
		},
		RequestedTerms: RequestedTerms{TermMonths: term},
		ApplicationStatus: Status{
			Status:    StatusSubmitted,
			Notes:     submittedNotes,
			CreatedAt: now,
			UpdatedAt: now,
		},
		ConversationLog: conversationLog(meta.Turns),
		CreatedAt:       now,
		SessionID:       meta.SessionID,
		Mode:            meta.Mode,
	}
	return doc, nil
}

func textValue(field string, v any) (string, error) {
	if v == nil {
		return "", &FieldError{Field: field, Err: ErrMissing}
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", &FieldError{Field: field, Value: v, Err: ErrMissing}
	}
	return s, nil
}

// Amount coerces a loan amount. Strings may carry a leading "$" and comma
// thousands separators.
func Amount(v any) (int, error) {
	return wholeNumber(schema.LoanAmount, v, func(s string) string {
		s = strings.TrimPrefix(s, "$")
		return strings.ReplaceAll(s, ",", "")
	})
}

// Term coerces a loan term in months. Strings may end in "month(s)".
func Term(v any) (int, error) {
	return wholeNumber(schema.TermMonths, v, func(s string) string {
		return termSuffixRe.ReplaceAllString(s, "")
	})
}

func wholeNumber(field string, v any, clean func(string) string) (int, error) {
	n, err := parseWhole(field, v, clean)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, &FieldError{Field: field, Value: v, Err: ErrNotPositive}
	}
	return n, nil
}

func parseWhole(field string, v any, clean func(string) string) (int, error) {
	switch n := v.(type) {
	case nil:
		return 0, &FieldError{Field: field, Err: ErrMissing}
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		// JSON-decoded sessions carry numbers as float64.
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, &FieldError{Field: field, Value: v, Err: ErrNotNumeric}
		}
		return int(n), nil
	case string:
		s := clean(strings.TrimSpace(n))
		if s == "" {
			return 0, &FieldError{Field: field, Value: v, Err: ErrMissing}
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, &FieldError{Field: field, Value: v, Err: ErrNotNumeric}
		}
		return i, nil
	default:
		return 0, &FieldError{Field: field, Value: v, Err: ErrNotNumeric}
	}
}
