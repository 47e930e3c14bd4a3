// Package schema declares the fixed, ordered set of loan application fields.
package schema

import "strings"

// Field identifiers.
const (
	Name           = "name"
	Phone          = "phone"
	Email          = "email"
	Address        = "address"
	InvestmentType = "investment_type"
	LoanAmount     = "loan_amount"
	LoanPurpose    = "loan_purpose"
	TermMonths     = "term_months"
)

// FieldDefinition describes one required field. Definitions are never mutated.
type FieldDefinition struct {
	Field       string   `json:"field"`
	Label       string   `json:"label"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	StoragePath string   `json:"storage_path"`
}

// HasOptions reports whether the field is answered from a fixed choice set.
func (d FieldDefinition) HasOptions() bool {
	return len(d.Options) > 0
}

// Option returns the canonical option matching answer, case-insensitively.
func (d FieldDefinition) Option(answer string) (string, bool) {
	answer = strings.TrimSpace(answer)
	for _, o := range d.Options {
		if strings.EqualFold(o, answer) {
			return o, true
		}
	}
	return "", false
}

var fields = []FieldDefinition{
	{
		Field:       Name,
		Label:       "Full Name",
		Prompt:      "What is your name?",
		StoragePath: "applicant_info.name",
	},
	{
		Field:       Phone,
		Label:       "Phone Number",
		Prompt:      "What is your phone number?",
		StoragePath: "applicant_info.phone",
	},
	{
		Field:       Email,
		Label:       "Email Address",
		Prompt:      "What is your email?",
		StoragePath: "applicant_info.email",
	},
	{
		Field:       Address,
		Label:       "Property Address",
		Prompt:      "What is the address of the property you are looking to finance?",
		StoragePath: "property_info.address",
	},
	{
		Field:       InvestmentType,
		Label:       "Investment Type (e.g., single-family, multi-family, commercial, primary residence, fix and flip)",
		Prompt:      "Please select the investment type you are interested in.",
		Options:     []string{"Rental Property", "Fix and Flip", "New Construction", "Bridge Loan", "Other"},
		StoragePath: "loan_details.investment_type",
	},
	{
		Field:       LoanAmount,
		Label:       "Loan Amount",
		Prompt:      "How much money are you seeking?",
		StoragePath: "loan_details.loan_amount",
	},
	{
		Field:       LoanPurpose,
		Label:       "Loan Purpose (purchase, refinance, renovation)",
		Prompt:      "Please select the intended purpose for this loan.",
		Options:     []string{"Property Purchase", "Refinance with Cash-out", "Rate and Term Refinance"},
		StoragePath: "loan_details.loan_purpose",
	},
	{
		Field:       TermMonths,
		Label:       "Loan Term in months (e.g., 120 months for a 10-year loan)",
		Prompt:      "Please provide your desired loan term in number of months.",
		StoragePath: "requested_terms.term_months",
	},
}

// Fields returns the definitions in declared order.
func Fields() []FieldDefinition {
	out := make([]FieldDefinition, len(fields))
	copy(out, fields)
	return out
}

// Names returns the field identifiers in declared order.
func Names() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Field
	}
	return out
}

// Lookup finds a definition by field identifier.
func Lookup(field string) (FieldDefinition, bool) {
	for _, f := range fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// At returns the definition at declared position i.
func At(i int) (FieldDefinition, bool) {
	if i < 0 || i >= len(fields) {
		return FieldDefinition{}, false
	}
	return fields[i], true
}

// Index returns the declared position of field, or -1.
func Index(field string) int {
	for i, f := range fields {
		if f.Field == field {
			return i
		}
	}
	return -1
}

// Missing returns, in declared order, the fields for which present reports false.
func Missing(present func(field string) bool) []string {
	var out []string
	for _, f := range fields {
		if !present(f.Field) {
			out = append(out, f.Field)
		}
	}
	return out
}
