package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// IdempotencyHeader carries the gateway payment id so a retried save cannot
// create a second order for the same payment.
const IdempotencyHeader = "Idempotency-Key"

// ErrPersistenceFailed means payment has already been captured by the
// gateway but the order record was not durably saved.
var ErrPersistenceFailed = errors.New("order persistence failed")

// OrderClient submits finalized orders to the remote order API
type OrderClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOrderClient creates a new OrderClient
func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SaveOrderResponse is the response from POST /api/orders
type SaveOrderResponse struct {
	OrderID string `json:"orderId"`
}

// Save persists an order record. record must carry a confirmation; the
// idempotency key is the gateway payment id.
func (c *OrderClient) Save(ctx context.Context, record []byte, idempotencyKey string) (string, error) {
	url := fmt.Sprintf("%s/api/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(record))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(IdempotencyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: order API returned %d", ErrPersistenceFailed, resp.StatusCode)
	}

	var out SaveOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return out.OrderID, nil
}
