package conversation

import (
	"strings"
	"time"
)

// Sender identifies who authored a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Turn is one message in a conversation.
type Turn struct {
	Text   string    `json:"text"`
	Sender Sender    `json:"sender"`
	Field  string    `json:"field,omitempty"` // scripted mode: the field this turn asks for or answers
	At     time.Time `json:"at"`
}

// Conversation is an ordered, append-only list of turns.
type Conversation struct {
	Turns []Turn `json:"turns"`
}

func (c *Conversation) Append(t Turn) {
	if t.At.IsZero() {
		t.At = time.Now().UTC()
	}
	c.Turns = append(c.Turns, t)
}

func (c *Conversation) AddUser(text string) Turn {
	t := Turn{Text: text, Sender: SenderUser, At: time.Now().UTC()}
	c.Turns = append(c.Turns, t)
	return t
}

func (c *Conversation) AddBot(text string) Turn {
	t := Turn{Text: text, Sender: SenderBot, At: time.Now().UTC()}
	c.Turns = append(c.Turns, t)
	return t
}

func (c *Conversation) Len() int {
	return len(c.Turns)
}

// Since returns the turns appended at or after index i.
func (c *Conversation) Since(i int) []Turn {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Turns) {
		return nil
	}
	out := make([]Turn, len(c.Turns)-i)
	copy(out, c.Turns[i:])
	return out
}

// Label is the speaker label used when a transcript is rendered as text.
func (s Sender) Label() string {
	if s == SenderUser {
		return "User"
	}
	return "Assistant"
}

// Line renders a turn as "Speaker: text".
func (t Turn) Line() string {
	return t.Sender.Label() + ": " + t.Text
}

// Transcript renders every turn speaker-labelled, one per line, in order.
func (c *Conversation) Transcript() string {
	lines := make([]string, len(c.Turns))
	for i, t := range c.Turns {
		lines[i] = t.Line()
	}
	return strings.Join(lines, "\n")
}
