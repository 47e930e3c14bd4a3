package conversation

import "testing"

func TestTranscript_LabelsAndOrder(t *testing.T) {
	var c Conversation
	c.AddBot("What is your name?")
	c.AddUser("John Smith")
	c.AddBot("Thanks John.")

	want := "Assistant: What is your name?\nUser: John Smith\nAssistant: Thanks John."
	if got := c.Transcript(); got != want {
		t.Errorf("unexpected transcript:\n%s", got)
	}
}

func TestAppend_StampsTime(t *testing.T) {
	var c Conversation
	c.Append(Turn{Text: "hi", Sender: SenderUser})

	if c.Turns[0].At.IsZero() {
		t.Error("expected Append to stamp a timestamp")
	}
}

func TestSince(t *testing.T) {
	var c Conversation
	c.AddBot("a")
	c.AddUser("b")
	c.AddBot("c")

	got := c.Since(1)
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Errorf("unexpected turns since 1: %+v", got)
	}
	if got := c.Since(3); got != nil {
		t.Errorf("expected nil past the end, got %+v", got)
	}

	got[0].Text = "mutated"
	if c.Turns[1].Text != "b" {
		t.Error("Since must return a copy")
	}
}
