package application

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	preApprovalShare = 80 // percent of the requested amount
	preApprovalRate  = 10 // percent
)

var printer = message.NewPrinter(language.English)

// PreApproval renders the pre-approval line shown once an application is
// stored.
func (d Document) PreApproval() string {
	return printer.Sprintf("You're pre-approved for $%s at %d%% over %d months.",
		preApprovedAmount(d.LoanDetails.LoanAmount),
		preApprovalRate,
		d.RequestedTerms.TermMonths,
	)
}

// preApprovedAmount renders the approved share of amount with thousands
// separators, dropping trailing zero decimals. The share is worked out per
// hundred dollars so large amounts cannot overflow.
func preApprovedAmount(amount int) string {
	hundreds, rest := amount/100, amount%100
	cents := rest * preApprovalShare
	whole := hundreds*preApprovalShare + cents/100
	frac := cents % 100

	s := printer.Sprintf("%d", whole)
	switch {
	case frac == 0:
		return s
	case frac%10 == 0:
		return fmt.Sprintf("%s.%d", s, frac/10)
	default:
		return fmt.Sprintf("%s.%02d", s, frac)
	}
}
