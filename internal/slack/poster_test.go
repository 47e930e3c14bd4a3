package slack

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/intake/internal/application"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDocument() application.Document {
	return application.Document{
		ApplicantInfo: application.ApplicantInfo{Name: "John Smith", Phone: "5551234567", Email: "john@x.com"},
		PropertyInfo:  application.PropertyInfo{Address: "123 Main Street"},
		LoanDetails: application.LoanDetails{
			InvestmentType: "Rental Property",
			LoanAmount:     250000,
			LoanPurpose:    "purchase",
		},
		RequestedTerms: application.RequestedTerms{TermMonths: 24},
		SessionID:      "sess-1",
		Mode:           "freeform",
	}
}

func TestFormatApplicationMessage(t *testing.T) {
	msg := formatApplicationMessage("app-123", sampleDocument())

	checks := []string{
		"app-123",
		"John Smith",
		"john@x.com",
		"5551234567",
		"123 Main Street",
		"Rental Property",
		"purchase",
		"$250000 over 24 months",
		"pre-approved for $200,000",
	}
	for _, check := range checks {
		if !strings.Contains(msg, check) {
			t.Errorf("expected message to contain %q\n%s", check, msg)
		}
	}
}

func TestNotifyApplication_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer xoxb-test" {
			t.Errorf("expected Bearer xoxb-test, got %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		json.Unmarshal(body, &payload)

		if payload["channel"] != "C123" {
			t.Errorf("expected channel C123, got %v", payload["channel"])
		}
		if text, _ := payload["text"].(string); !strings.Contains(text, "app-9") {
			t.Errorf("expected application id in text, got %q", text)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"ts": "1234567890.123456",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	if err := p.NotifyApplication(context.Background(), "app-9", sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotifyApplication_SlackError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":    false,
			"error": "channel_not_found",
		})
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	err := p.NotifyApplication(context.Background(), "app-9", sampleDocument())
	if err == nil {
		t.Fatal("expected error for slack error response")
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("expected slack error in message, got %v", err)
	}
}

func TestNotifyApplication_BadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	p := NewPoster("xoxb-test", "C123", discardLogger())
	p.apiURL = server.URL

	if err := p.NotifyApplication(context.Background(), "app-9", sampleDocument()); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}
