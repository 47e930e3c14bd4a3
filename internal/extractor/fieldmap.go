package extractor

import (
	"github.com/MikeSquared-Agency/intake/internal/schema"
)

// FieldMap holds the fields extracted so far. Values are strings except
// loan_amount and term_months, which are ints when produced by Extract.
// Absent fields have no key; there are no placeholder values.
type FieldMap map[string]any

func (m FieldMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Complete reports whether every schema field is present.
func (m FieldMap) Complete() bool {
	return len(m.Missing()) == 0
}

// Missing returns absent fields in declared order.
func (m FieldMap) Missing() []string {
	return schema.Missing(m.Has)
}

// Filled returns present fields in declared order.
func (m FieldMap) Filled() []string {
	var out []string
	for _, name := range schema.Names() {
		if m.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

func (m FieldMap) Clone() FieldMap {
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
