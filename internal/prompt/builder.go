// Package prompt renders the instruction sent to the hosted model when the
// next question has to be generated.
package prompt

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/schema"
)

// Build returns the instruction for the next bot turn. With nothing left to
// collect it returns a closing instruction that asks no question.
func Build(c *conversation.Conversation, filled []string) string {
	have := make(map[string]bool, len(filled))
	for _, f := range filled {
		have[f] = true
	}
	missing := schema.Missing(func(f string) bool { return have[f] })
	if len(missing) == 0 {
		return closingPrompt
	}

	collected := "none"
	if ordered := orderFilled(have); len(ordered) > 0 {
		collected = strings.Join(ordered, ", ")
	}

	return fmt.Sprintf(nextQuestionPrompt,
		targetList(),
		c.Transcript(),
		collected,
		strings.Join(missing, ", "),
	)
}

func targetList() string {
	var sb strings.Builder
	for i, f := range schema.Fields() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(f.Label)
	}
	return sb.String()
}

func orderFilled(have map[string]bool) []string {
	var out []string
	for _, name := range schema.Names() {
		if have[name] {
			out = append(out, name)
		}
	}
	return out
}
