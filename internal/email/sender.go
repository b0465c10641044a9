package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shoplux/shoplux-backend/pkg/logger"
)

const sendgridMailURL = "https://api.sendgrid.com/v3/mail/send"

// Message is a rendered transactional email ready to send.
type Message struct {
	To       string
	From     string
	Subject  string
	BodyHTML string
}

// Sender delivers rendered messages through a mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendgridSender delivers mail through the Sendgrid v3 API.
type SendgridSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSendgridSender validates the API key and builds the sender.
func NewSendgridSender(apiKey string, timeout time.Duration) (*SendgridSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SendgridSender{
		apiKey:  apiKey,
		baseURL: sendgridMailURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPayload struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(sendgridPayload{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: msg.To}}}},
		From:             sendgridAddress{Email: msg.From},
		Subject:          msg.Subject,
		Content:          []sendgridContent{{Type: "text/html", Value: msg.BodyHTML}},
	})
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("call mail provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("mail provider refused message: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// LogSender records outgoing mail instead of delivering it. Dev environments
// without Sendgrid credentials wire this in place of the real sender.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		s.logg.Info(ctx, "mail delivery skipped, no provider configured")
	}
	return nil
}
