// Package transcript loads recorded intake conversations from disk so they
// can be replayed through the extractor offline.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/conversation"
)

// line is one recorded message. Session exports use sender/text, conversation
// logs use sender/message, and chat exports use role/content.
type line struct {
	Sender    string          `json:"sender"`
	Role      string          `json:"role"`
	Text      string          `json:"text"`
	Message   string          `json:"message"`
	Content   json.RawMessage `json:"content"`
	At        time.Time       `json:"at"`
	Timestamp time.Time       `json:"timestamp"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// envelope matches a session view, an application document or a stored
// application wrapping one.
type envelope struct {
	Turns           []line    `json:"turns"`
	ConversationLog []line    `json:"conversation_log"`
	Document        *envelope `json:"document"`
}

func (e *envelope) lines() []line {
	if e == nil {
		return nil
	}
	out := append(e.Turns, e.ConversationLog...)
	return append(out, e.Document.lines()...)
}

// ParseFile reads a transcript from path. See Parse for accepted formats.
func ParseFile(path string) (*conversation.Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse accepts a JSON array of turns, an object carrying "turns" or
// "conversation_log", or JSONL with one turn per line. Lines that are not
// user or bot turns, or carry no text, are skipped.
func Parse(r io.Reader) (*conversation.Conversation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)

	var lines []line
	switch {
	case len(data) == 0:
	case data[0] == '[':
		if err := json.Unmarshal(data, &lines); err != nil {
			return nil, fmt.Errorf("decode array: %w", err)
		}
	default:
		var env envelope
		if err := json.Unmarshal(data, &env); err == nil {
			if lines = env.lines(); lines != nil {
				break
			}
		}
		lines, err = parseLines(data)
		if err != nil {
			return nil, err
		}
	}

	c := &conversation.Conversation{}
	for _, l := range lines {
		if t, ok := l.turn(); ok {
			c.Append(t)
		}
	}
	return c, nil
}

func parseLines(data []byte) ([]line, error) {
	var lines []line
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		lines = append(lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return lines, nil
}

func (l line) turn() (conversation.Turn, bool) {
	var sender conversation.Sender
	who := l.Sender
	if who == "" {
		who = l.Role
	}
	switch strings.ToLower(who) {
	case "user", "human":
		sender = conversation.SenderUser
	case "bot", "assistant", "model":
		sender = conversation.SenderBot
	default:
		return conversation.Turn{}, false
	}

	text := l.Text
	if text == "" {
		text = l.Message
	}
	if text == "" {
		text = contentText(l.Content)
	}
	if text == "" {
		return conversation.Turn{}, false
	}

	at := l.At
	if at.IsZero() {
		at = l.Timestamp
	}
	return conversation.Turn{Text: text, Sender: sender, At: at}, true
}

// contentText accepts either a plain string or an array of typed blocks, in
// which case only text blocks are kept.
func contentText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
