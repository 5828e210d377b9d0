package services

import (
	"context"
	"sync"

	"checkout-service/models"

	"github.com/google/uuid"
)

// Contact prefilled into the gateway surface when the session has none on
// record, matching the merchant's configured policy.
const defaultPrefillContact = "9999999999"

// GatewayConfig carries the merchant-side display values embedded in the
// options payload.
type GatewayConfig struct {
	Key          string
	MerchantName string
	Description  string
	ThemeColor   string
}

// Collector delegates payment collection to the external gateway. The
// gateway owns its own UI and cryptographic confirmation; the completion
// callback is the sole channel by which a confirmation is produced, and its
// signature is not re-verified here.
type Collector struct {
	cfg GatewayConfig

	mu      sync.Mutex
	pending map[uuid.UUID]chan models.PaymentConfirmation
}

func NewCollector(cfg GatewayConfig) *Collector {
	return &Collector{
		cfg:     cfg,
		pending: make(map[uuid.UUID]chan models.PaymentConfirmation),
	}
}

// Open registers a pending collection for a checkout and returns the
// configuration object for the gateway's interaction surface.
func (c *Collector) Open(checkoutID uuid.UUID, order models.PaymentOrder, customer models.Customer, form models.CheckoutForm) models.GatewayOptions {
	c.mu.Lock()
	// Buffered so a late Deliver never blocks the callback handler.
	c.pending[checkoutID] = make(chan models.PaymentConfirmation, 1)
	c.mu.Unlock()

	name := form.Name
	if name == "" {
		name = customer.Name
	}
	email := form.Email
	if email == "" {
		email = customer.Email
	}

	return models.GatewayOptions{
		Key:         c.cfg.Key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        c.cfg.MerchantName,
		Description: c.cfg.Description,
		OrderID:     order.ID,
		Prefill: models.GatewayPrefill{
			Name:    name,
			Email:   email,
			Contact: defaultPrefillContact,
		},
		Theme: models.GatewayTheme{Color: c.cfg.ThemeColor},
	}
}

// Collect blocks until the gateway's completion callback delivers a
// confirmation, or ctx is cancelled. There is no timeout: if the user closes
// the gateway dialog without completing, no callback fires and the checkout
// never advances.
func (c *Collector) Collect(ctx context.Context, checkoutID uuid.UUID) (models.PaymentConfirmation, error) {
	c.mu.Lock()
	ch, ok := c.pending[checkoutID]
	c.mu.Unlock()
	if !ok {
		return models.PaymentConfirmation{}, ErrCheckoutNotFound
	}

	select {
	case conf := <-ch:
		c.drop(checkoutID)
		if conf.IsZero() {
			return models.PaymentConfirmation{}, ErrEmptyConfirmation
		}
		return conf, nil
	case <-ctx.Done():
		c.drop(checkoutID)
		return models.PaymentConfirmation{}, ErrCollectionAbandoned
	}
}

// Deliver resolves a pending collection with the confirmation carried by the
// gateway callback. The registration stays in place until Collect consumes
// it, so a callback that lands before the waiter reaches Collect is buffered
// rather than lost. It fails when the checkout is unknown or already
// resolved.
func (c *Collector) Deliver(checkoutID uuid.UUID, conf models.PaymentConfirmation) error {
	c.mu.Lock()
	ch, ok := c.pending[checkoutID]
	c.mu.Unlock()
	if !ok {
		return ErrNotAwaitingGateway
	}
	select {
	case ch <- conf:
		return nil
	default:
		return ErrNotAwaitingGateway
	}
}

func (c *Collector) drop(checkoutID uuid.UUID) {
	c.mu.Lock()
	delete(c.pending, checkoutID)
	c.mu.Unlock()
}
