package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/intake/internal/schema"
)

// Plausible loan amounts lie strictly between these bounds.
const (
	LoanAmountMin = 5000
	LoanAmountMax = 10000000
)

var (
	nameRe     = regexp.MustCompile(`^[A-Za-z]+\s+[A-Za-z]+$`)
	phoneRe    = regexp.MustCompile(`(?:^|[^\d])(\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4})(?:[^\d]|$)`)
	emailRe    = regexp.MustCompile(`[^\s@]+@[^\s@]+\.[^\s@]+`)
	streetRe   = regexp.MustCompile(`(?i)\b(street|st|road|rd|drive|dr|lane|ln|avenue|ave|boulevard|blvd|court|ct|circle|cir|way)\b`)
	houseRe    = regexp.MustCompile(`\b\d{2,5}\b`)
	digitsRe   = regexp.MustCompile(`\d[\d,]*`)
	groupRe    = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
	askRe      = regexp.MustCompile(`(?i)(borrow|amount|loan|need|request|financ|how much)`)
	zipRe      = regexp.MustCompile(`\b[A-Z]{2},?\s+\d{5}(?:-\d{4})?\b`)
	purposeRe  = regexp.MustCompile(`(?i)\b(purchase|refinance|renovation|renovate|construction|fix|flip)`)
	investRe   = regexp.MustCompile(`(?i)\b(rental|fix and flip|flip|construction|bridge|residential|commercial|multi-?family|single-?family|primary|investment)\b`)
	monthsRe   = regexp.MustCompile(`(?i)\b(\d{1,3})\s*-?\s*months?\b`)
	yearsRe    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*-?\s*(?:years?|yrs?)\b`)
	bareRe     = regexp.MustCompile(`^\s*(\d{1,3})\s*$`)
	monthCueRe = regexp.MustCompile(`(?i)month`)
	yearCueRe  = regexp.MustCompile(`(?i)\b(years?|yrs?)\b`)
	termCueRe  = regexp.MustCompile(`(?i)(\bterm\b|how long)`)
)

func amountInRange(n int) bool {
	return n > LoanAmountMin && n < LoanAmountMax
}

// recognizerFunc adapts a plain function to Recognizer.
type recognizerFunc struct {
	field string
	fn    func(Input) (any, bool)
}

func (r recognizerFunc) Field() string                  { return r.field }
func (r recognizerFunc) Recognize(in Input) (any, bool) { return r.fn(in) }

// Func wraps fn as a Recognizer for field.
func Func(field string, fn func(Input) (any, bool)) Recognizer {
	return recognizerFunc{field: field, fn: fn}
}

// DefaultRecognizers returns one recognizer per schema field, in declared order.
func DefaultRecognizers(opts Options) []Recognizer {
	return []Recognizer{
		Func(schema.Name, recognizeName),
		Func(schema.Phone, recognizePhone),
		Func(schema.Email, recognizeEmail),
		Func(schema.Address, recognizeAddress),
		Func(schema.InvestmentType, recognizeInvestmentType),
		Func(schema.LoanAmount, recognizeLoanAmount),
		Func(schema.LoanPurpose, recognizeLoanPurpose),
		TermMonths(opts.TermMonthsMin, opts.TermMonthsMax),
	}
}

func recognizeName(in Input) (any, bool) {
	text := strings.TrimSpace(in.Text)
	if nameRe.MatchString(text) {
		return text, true
	}
	return nil, false
}

func recognizePhone(in Input) (any, bool) {
	m := phoneRe.FindStringSubmatch(in.Text)
	if m == nil {
		return nil, false
	}
	return onlyDigits(m[1]), true
}

func recognizeEmail(in Input) (any, bool) {
	m := emailRe.FindString(in.Text)
	if m == "" {
		return nil, false
	}
	return strings.TrimRight(m, ".,;:!?)"), true
}

func recognizeAddress(in Input) (any, bool) {
	if streetRe.MatchString(in.Text) && houseRe.MatchString(in.Text) {
		return strings.TrimSpace(in.Text), true
	}
	return nil, false
}

func recognizeInvestmentType(in Input) (any, bool) {
	if investRe.MatchString(in.Text) {
		return strings.TrimSpace(in.Text), true
	}
	return nil, false
}

// recognizeLoanAmount needs an amount-soliciting keyword in this turn or the
// one before it. A turn that reads as an address is never an amount, and
// numbers after a state code are zip codes.
func recognizeLoanAmount(in Input) (any, bool) {
	if !askRe.MatchString(in.Text) && !askRe.MatchString(in.Previous) {
		return nil, false
	}
	if _, ok := recognizeAddress(in); ok {
		return nil, false
	}
	text := zipRe.ReplaceAllString(in.Text, " ")
	for _, tok := range digitsRe.FindAllString(text, -1) {
		tok = strings.TrimRight(tok, ",")
		if strings.Contains(tok, ",") && !groupRe.MatchString(tok) {
			continue
		}
		digits := onlyDigits(tok)
		if len(digits) < 4 || len(digits) > 7 {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if amountInRange(n) {
			return n, true
		}
	}
	return nil, false
}

func recognizeLoanPurpose(in Input) (any, bool) {
	m := purposeRe.FindString(in.Text)
	if m == "" {
		return nil, false
	}
	return strings.ToLower(m), true
}

// TermMonths recognizes a loan term within [lo, hi] months. A number tied to
// "month(s)" is the preferred evidence; "N years" is converted; a bare number
// counts only when the previous turn asked about the term, and is read as
// years when that question was put in years.
func TermMonths(lo, hi int) Recognizer {
	return Func(schema.TermMonths, func(in Input) (any, bool) {
		inBounds := func(n int) bool { return n >= lo && n <= hi }

		if m := monthsRe.FindStringSubmatch(in.Text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && inBounds(n) {
				return n, true
			}
		}
		if m := yearsRe.FindStringSubmatch(in.Text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && inBounds(n*12) {
				return n * 12, true
			}
		}
		if m := bareRe.FindStringSubmatch(in.Text); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, false
			}
			switch {
			case monthCueRe.MatchString(in.Previous):
			case yearCueRe.MatchString(in.Previous):
				n *= 12
			case termCueRe.MatchString(in.Previous):
			default:
				return nil, false
			}
			if inBounds(n) {
				return n, true
			}
		}
		return nil, false
	})
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
