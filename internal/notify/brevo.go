package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

// BrevoMailer sends HTML email through the Brevo SMTP API.
type BrevoMailer struct {
	baseURL     string
	apiKey      string
	senderName  string
	senderEmail string
	httpClient  *http.Client
}

func NewBrevoMailer(baseURL, apiKey, senderName, senderEmail string) *BrevoMailer {
	return &BrevoMailer{
		baseURL:     baseURL,
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		httpClient:  &http.Client{},
	}
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoPayload struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

func (m *BrevoMailer) SendHTML(ctx context.Context, recipients []EmailRecipient, subject, html string) error {
	to := make([]brevoAddress, 0, len(recipients))
	for _, r := range recipients {
		name := r.Name
		if name == "" {
			name = strings.Split(r.Email, "@")[0]
		}
		to = append(to, brevoAddress{Email: r.Email, Name: name})
	}

	payload := brevoPayload{
		Sender:      brevoAddress{Email: m.senderEmail, Name: m.senderName},
		To:          to,
		Subject:     subject,
		HTMLContent: html,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return customErrors.WrapInternal(err, "marshal brevo payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return customErrors.WrapInternal(err, "build brevo request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: brevo: %v", customErrors.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: brevo status %d", customErrors.ErrUpstreamProvider, resp.StatusCode)
	}
	return nil
}
