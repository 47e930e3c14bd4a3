package prompt

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
	"github.com/MikeSquared-Agency/intake/internal/schema"
)

func TestBuild_AllFilledIsClosing(t *testing.T) {
	var c conversation.Conversation
	c.AddUser("John Smith")

	got := Build(&c, schema.Names())

	if got != closingPrompt {
		t.Errorf("expected closing prompt, got %q", got)
	}
	if strings.Contains(got, "?") {
		t.Error("closing prompt must not contain a question")
	}
	if !strings.Contains(got, "Do not ask for anything else") {
		t.Error("closing prompt should tell the model to stop asking")
	}
}

func TestBuild_NextQuestion(t *testing.T) {
	var c conversation.Conversation
	c.AddBot("Hi! What can I help you with today?")
	c.AddUser("John Smith")
	c.AddUser("john@x.com")

	got := Build(&c, []string{schema.Email, schema.Name})

	for _, want := range []string{
		"You are a professional and friendly AI loan officer.",
		"- Full Name",
		"- Loan Term in months",
		"Assistant: Hi! What can I help you with today?\nUser: John Smith\nUser: john@x.com",
		"Fields already collected: name, email",
		"Remaining fields: phone, address, investment_type, loan_amount, loan_purpose, term_months",
		"Ask for only one missing field at a time",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n---\n%s", want, got)
		}
	}
}

func TestBuild_NothingFilled(t *testing.T) {
	var c conversation.Conversation
	c.AddBot("Hi!")

	got := Build(&c, nil)

	if !strings.Contains(got, "Fields already collected: none") {
		t.Errorf("expected 'none' for empty collection:\n%s", got)
	}
	if !strings.Contains(got, "Remaining fields: name, phone, email") {
		t.Errorf("expected remaining fields in declared order:\n%s", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	var c conversation.Conversation
	c.AddUser("Jane Doe")

	a := Build(&c, []string{schema.Name})
	b := Build(&c, []string{schema.Name})
	if a != b {
		t.Error("expected identical prompts for identical input")
	}
}
