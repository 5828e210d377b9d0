package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"checkout-service/models"
)

// ErrOrderCreationFailed covers network errors and non-success responses
// from the remote payment-order endpoint. No payment has been attempted yet
// when it occurs, so it is fully recoverable.
var ErrOrderCreationFailed = errors.New("payment order creation failed")

// PaymentClient requests creation of remote payment orders via HTTP
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPaymentClient creates a new PaymentClient
func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrderRequest is the payload sent to POST /api/payment/create-order
type CreateOrderRequest struct {
	Amount int64 `json:"amount"`
}

// CreateOrder asks the remote payment API to issue an order authorizing the
// given amount. The caller must have verified identity and computed the
// amount locally before calling.
func (c *PaymentClient) CreateOrder(ctx context.Context, amount int64) (*models.PaymentOrder, error) {
	body, err := json.Marshal(CreateOrderRequest{Amount: amount})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/payment/create-order", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: payment API returned %d", ErrOrderCreationFailed, resp.StatusCode)
	}

	var order models.PaymentOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: response missing order id", ErrOrderCreationFailed)
	}
	return &order, nil
}
