package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
)

// Message is one outgoing email.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Client exposes operations to deliver email through the provider.
type Client interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Disabled is the client used when no provider is configured. Every send
// fails with ErrMailerNotConfigured so callers can surface an instructive
// error instead of silently dropping mail.
type Disabled struct{}

// Send always reports the missing configuration.
func (Disabled) Send(context.Context, Message) (string, error) {
	return "", domainErrors.ErrMailerNotConfigured
}

// HTTPClient implements Client via the provider's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the provider's JSON payload.
type response struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// NewHTTPClient creates an HTTP mailer client with default timeout.
func NewHTTPClient(baseURL, from string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse mailer url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mailer url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		from:    from,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts the message to the provider and returns its message ID.
func (c *HTTPClient) Send(ctx context.Context, msg Message) (string, error) {
	if msg.From == "" {
		msg.From = c.from
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/send")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		c.logger.Error("mailer request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("mailer error: %s", resp.Status)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	if data.Error != "" {
		return "", fmt.Errorf("mailer error: %s", data.Error)
	}
	return data.MessageID, nil
}
