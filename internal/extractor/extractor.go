package extractor

import (
	"github.com/MikeSquared-Agency/intake/internal/conversation"
)

// Input is what a recognizer sees: one user turn and the turn immediately
// before it in the transcript (empty for the first turn).
type Input struct {
	Text     string
	Previous string
}

// Recognizer pulls one field's value out of a single turn.
type Recognizer interface {
	Field() string
	Recognize(in Input) (any, bool)
}

// Options tunes the default recognizers.
type Options struct {
	TermMonthsMin int
	TermMonthsMax int
}

// DefaultOptions uses the wider of the deployed term bounds.
func DefaultOptions() Options {
	return Options{TermMonthsMin: 6, TermMonthsMax: 480}
}

// AmountInRange reports whether n is a plausible loan amount.
func (o Options) AmountInRange(n int) bool {
	return amountInRange(n)
}

// TermInRange reports whether n months is a plausible loan term.
func (o Options) TermInRange(n int) bool {
	return n >= o.TermMonthsMin && n <= o.TermMonthsMax
}

type Extractor struct {
	recognizers []Recognizer
	opts        Options
}

// New builds an Extractor with one default recognizer per schema field.
func New(opts Options) *Extractor {
	if opts.TermMonthsMin <= 0 {
		opts.TermMonthsMin = DefaultOptions().TermMonthsMin
	}
	if opts.TermMonthsMax < opts.TermMonthsMin {
		opts.TermMonthsMax = DefaultOptions().TermMonthsMax
	}
	e := NewWith(DefaultRecognizers(opts)...)
	e.opts = opts
	return e
}

// NewWith builds an Extractor from an explicit recognizer set.
func NewWith(recognizers ...Recognizer) *Extractor {
	return &Extractor{recognizers: recognizers, opts: DefaultOptions()}
}

// Options returns the bounds the extractor's recognizers enforce. Answers
// collected by other means are held to the same bounds.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract scans user turns in transcript order and runs each recognizer whose
// field is still unset. The first turn to satisfy a field wins; later turns
// never overwrite it.
func (e *Extractor) Extract(turns []conversation.Turn) FieldMap {
	fields := make(FieldMap)
	for i, t := range turns {
		if t.Sender != conversation.SenderUser {
			continue
		}
		in := Input{Text: t.Text}
		if i > 0 {
			in.Previous = turns[i-1].Text
		}
		for _, r := range e.recognizers {
			if fields.Has(r.Field()) {
				continue
			}
			if v, ok := r.Recognize(in); ok {
				fields[r.Field()] = v
			}
		}
	}
	return fields
}
