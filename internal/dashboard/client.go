// Package dashboard relays user-originated replies to the operational
// dashboard. Forwarding is best-effort: failures are reported to the
// caller for logging and metrics, never to the provider.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/itsolution4india/webhook-develop/internal/models"
)

// Client posts reply payloads to a fixed dashboard URL.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a dashboard client. Timeout bounds every forward
// attempt; zero selects a 10s default.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type forwardBody struct {
	Response *models.WebhookPayload `json:"response"`
}

// MaybeForward forwards the raw payload when it represents a
// user-originated reply. It returns false with no error for
// status-only events, where nothing is sent. The reply decision reads
// the raw payload directly rather than a normalized record: button
// text and free-text body are extracted independently.
func (c *Client) MaybeForward(ctx context.Context, p *models.WebhookPayload) (bool, error) {
	messageText, userResponse := replyContent(p)
	if messageText == "" && userResponse == "" {
		return false, nil
	}

	body, err := json.Marshal(forwardBody{Response: p})
	if err != nil {
		return true, fmt.Errorf("encode forward body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return true, fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("forward to dashboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return true, fmt.Errorf("dashboard returned status %d", resp.StatusCode)
	}

	// The relay is still attempted without a contact, but the attempt
	// is reported as failed so the gap shows up in the logs.
	if contactWaID(p) == "" {
		return true, errors.New("payload has no contact wa_id")
	}
	return true, nil
}

// replyContent pulls the candidate button text and free-text body from
// the first message of the first change.
func replyContent(p *models.WebhookPayload) (messageText, userResponse string) {
	msg := firstMessage(p)
	if msg == nil {
		return "", ""
	}
	if msg.Button != nil {
		messageText = msg.Button.Text
	}
	if msg.Text != nil {
		userResponse = msg.Text.Body
	}
	return messageText, userResponse
}

func contactWaID(p *models.WebhookPayload) string {
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Contacts) > 0 {
				return change.Value.Contacts[0].WaID
			}
		}
	}
	return ""
}

func firstMessage(p *models.WebhookPayload) *models.Message {
	if p == nil {
		return nil
	}
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				return &change.Value.Messages[0]
			}
		}
	}
	return nil
}
