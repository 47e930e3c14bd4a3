package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/intake/internal/application"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster tells loan officers about newly submitted applications.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// NotifyApplication posts a summary of a stored application to the channel.
func (p *Poster) NotifyApplication(ctx context.Context, applicationID string, doc application.Document) error {
	text := formatApplicationMessage(applicationID, doc)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
			{
				"type": "context",
				"elements": []map[string]any{
					{
						"type": "mrkdwn",
						"text": fmt.Sprintf("Session `%s` | %s intake", doc.SessionID, doc.Mode),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted application to slack", "ts", slackResp.TS, "application_id", applicationID)
	return nil
}

func formatApplicationMessage(applicationID string, doc application.Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "*New loan application* `%s`\n", applicationID)
	fmt.Fprintf(&sb, "*Applicant:* %s (%s, %s)\n", doc.ApplicantInfo.Name, doc.ApplicantInfo.Email, doc.ApplicantInfo.Phone)
	fmt.Fprintf(&sb, "*Property:* %s\n", doc.PropertyInfo.Address)
	fmt.Fprintf(&sb, "*Investment:* %s | *Purpose:* %s\n", doc.LoanDetails.InvestmentType, doc.LoanDetails.LoanPurpose)
	fmt.Fprintf(&sb, "*Requested:* $%d over %d months\n", doc.LoanDetails.LoanAmount, doc.RequestedTerms.TermMonths)
	fmt.Fprintf(&sb, "_%s_", doc.PreApproval())

	return sb.String()
}
