package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

// FCMPusher delivers web push messages through an FCM-compatible HTTP
// endpoint keyed by device token.
type FCMPusher struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewFCMPusher(endpoint, apiKey string) *FCMPusher {
	return &FCMPusher{endpoint: endpoint, apiKey: apiKey, httpClient: &http.Client{}}
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	Token        string          `json:"token"`
	Notification fcmNotification `json:"notification"`
	Link         *string         `json:"link,omitempty"`
}

func (p *FCMPusher) Push(ctx context.Context, deviceToken, title, body string, link *string) error {
	msg := fcmMessage{
		Token:        deviceToken,
		Notification: fcmNotification{Title: title, Body: body},
		Link:         link,
	}

	raw, err := json.Marshal(struct {
		Message fcmMessage `json:"message"`
	}{Message: msg})
	if err != nil {
		return customErrors.WrapInternal(err, "marshal fcm payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(raw))
	if err != nil {
		return customErrors.WrapInternal(err, "build fcm request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fcm: %v", customErrors.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: fcm status %d", customErrors.ErrUpstreamProvider, resp.StatusCode)
	}
	return nil
}
