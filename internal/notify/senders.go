package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"

	"github.com/atende/servicedesk/internal/config"
)

// ChatSender delivers a text message to a chat-channel address.
type ChatSender interface {
	Send(ctx context.Context, to, body string) error
}

// EmailSender delivers a subject and body to an email address.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// webhookChatSender posts messages to a provider-neutral chat gateway.
type webhookChatSender struct {
	url    string
	token  string
	client *http.Client
}

// NewWebhookChatSender builds the chat send primitive from config.
func NewWebhookChatSender(cfg config.NotifyConfig) ChatSender {
	return &webhookChatSender{
		url:    cfg.ChatGatewayURL,
		token:  cfg.ChatGatewayToken,
		client: &http.Client{Timeout: cfg.SendTimeout()},
	}
}

func (s *webhookChatSender) Send(ctx context.Context, to, body string) error {
	if s.url == "" {
		return fmt.Errorf("chat gateway url not configured")
	}
	payload, err := json.Marshal(map[string]string{
		"to":   to,
		"body": body,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("chat gateway responded %d", resp.StatusCode)
	}
	return nil
}

// smtpEmailSender delivers mail through a plain SMTP relay.
type smtpEmailSender struct {
	addr    string
	from    string
	timeout time.Duration
}

// NewSMTPEmailSender builds the email send primitive from config.
func NewSMTPEmailSender(cfg config.NotifyConfig) EmailSender {
	return &smtpEmailSender{
		addr:    cfg.SMTPAddr,
		from:    cfg.EmailFrom,
		timeout: cfg.SendTimeout(),
	}
}

func (s *smtpEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.addr == "" {
		return fmt.Errorf("smtp relay not configured")
	}
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(s.timeout):
		return fmt.Errorf("smtp send timed out after %s", s.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
