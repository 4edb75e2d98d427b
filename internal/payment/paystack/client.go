package paystack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

// Gateway verifies payments against the upstream provider. Its answer is
// the sole source of truth for marking a transaction successful.
type Gateway interface {
	VerifyPayment(ctx context.Context, reference string) (bool, json.RawMessage, error)
}

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{baseURL: baseURL, secretKey: secretKey, httpClient: &http.Client{}}
}

type verifyResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) VerifyPayment(ctx context.Context, reference string) (bool, json.RawMessage, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, nil, customErrors.WrapInternal(err, "build verify request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, nil, fmt.Errorf("%w: paystack: %v", customErrors.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil, fmt.Errorf("%w: paystack: decode: %v", customErrors.ErrUpstreamProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return false, nil, fmt.Errorf("%w: paystack status %d: %s",
			customErrors.ErrUpstreamProvider, resp.StatusCode, body.Message)
	}

	return body.Status, body.Data, nil
}
