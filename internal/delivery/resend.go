// Package delivery sends rendered digests through the Resend email API.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mrlokans/kindle-digest/internal/digest"
)

const (
	resendAPIURL = "https://api.resend.com/emails"

	// DefaultFrom is Resend's shared onboarding sender, used when no
	// custom domain sender is configured.
	DefaultFrom = "Kindle Highlights <onboarding@resend.dev>"

	defaultTimeout = 30 * time.Second
)

// Sender delivers a rendered digest to a recipient and returns an opaque
// delivery identifier.
type Sender interface {
	Send(ctx context.Context, to string, doc digest.Document) (string, error)
}

// ResendClient sends digests through the Resend HTTP API.
type ResendClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// NewResendClient creates a Resend API client. An empty from falls back to
// DefaultFrom.
func NewResendClient(apiKey, from string) *ResendClient {
	if from == "" {
		from = DefaultFrom
	}
	return &ResendClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    resendAPIURL,
		apiKey:     apiKey,
		from:       from,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// Send delivers the document. The recipient and API key are validated here
// so misconfiguration surfaces before an HTTP request is attempted.
func (c *ResendClient) Send(ctx context.Context, to string, doc digest.Document) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if to == "" {
		return "", ErrMissingRecipient
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{to},
		Subject: doc.Subject,
		HTML:    doc.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.ID, nil
}
