package notifications

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

	"terrapulse/internal/contact"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient sends transactional mail through the Brevo SMTP API.
type BrevoClient struct {
	apiKey      string
	senderEmail string
	senderName  string
	inboxEmail  string
	sandbox     bool
	endpoint    string
	httpClient  *http.Client
}

// NewBrevoClient returns nil when the API key or sender is missing, which disables mail.
// Team notifications go to inboxEmail, or to the sender address when it is empty.
func NewBrevoClient(apiKey, senderEmail, senderName, inboxEmail string, sandbox bool) *BrevoClient {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(senderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(senderName) == "" {
		senderName = senderEmail
	}
	if strings.TrimSpace(inboxEmail) == "" {
		inboxEmail = senderEmail
	}
	return &BrevoClient{
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		inboxEmail:  inboxEmail,
		sandbox:     sandbox,
		endpoint:    defaultBrevoEndpoint,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *BrevoClient) SendContactNotification(ctx context.Context, msg contact.Message) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}
	htmlBody, err := buildContactNotificationHTML(msg)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("[TerraPulse contact] %s", msg.Subject)
	return c.send(ctx, mail{
		toEmail: c.inboxEmail,
		toName:  c.senderName,
		replyTo: &brevoRecipient{Email: msg.Email, Name: msg.Name},
		subject: subject,
		html:    htmlBody,
	})
}

func (c *BrevoClient) SendContactAcknowledgement(ctx context.Context, msg contact.Message) (string, error) {
	if c == nil {
		return "", errors.New("brevo client is nil")
	}
	htmlBody, err := buildContactAcknowledgementHTML(msg)
	if err != nil {
		return "", err
	}
	return c.send(ctx, mail{
		toEmail: msg.Email,
		toName:  msg.Name,
		subject: "We received your message",
		html:    htmlBody,
	})
}

type mail struct {
	toEmail string
	toName  string
	replyTo *brevoRecipient
	subject string
	html    string
}

func (c *BrevoClient) send(ctx context.Context, m mail) (string, error) {
	if strings.TrimSpace(m.toEmail) == "" {
		return "", errors.New("missing recipient email")
	}
	if strings.TrimSpace(m.subject) == "" {
		return "", errors.New("missing subject")
	}
	if strings.TrimSpace(m.html) == "" {
		return "", errors.New("missing html body")
	}

	payload := brevoSendRequest{
		Sender: brevoSender{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []brevoRecipient{
			{
				Email: m.toEmail,
				Name:  m.toName,
			},
		},
		ReplyTo:     m.replyTo,
		Subject:     m.subject,
		HtmlContent: m.html,
	}
	if c.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("brevo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("brevo create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out brevoSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("brevo decode response: %w", err)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

type brevoSendRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	ReplyTo     *brevoRecipient   `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
