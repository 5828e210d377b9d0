package models

import "time"

// PaymentOrder is a remote-issued record authorizing a payment amount.
// Amount and currency are authoritative for display only; the requested
// amount always equals the locally computed total.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentConfirmation is the signed proof-of-payment tuple delivered by the
// gateway completion callback. It is opaque and passed through unmodified.
type PaymentConfirmation struct {
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

func (c PaymentConfirmation) IsZero() bool {
	return c.PaymentID == "" && c.OrderID == "" && c.Signature == ""
}

// OrderRecord is the unit submitted for durable storage, confirmation
// fields flattened in place of a nested object.
type OrderRecord struct {
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	DeliveryAddress   string     `json:"deliveryAddress"`
	Items             []CartItem `json:"items"`
	Subtotal          int64      `json:"subtotal"`
	DeliveryCharge    int64      `json:"deliveryCharge"`
	Total             int64      `json:"total"`
	UserID            string     `json:"userId"`
	PaymentID         string     `json:"paymentId"`
	RazorpayOrderID   string     `json:"razorpayOrderId"`
	RazorpaySignature string     `json:"razorpaySignature"`
}

// GatewayOptions is the configuration object handed to the gateway's
// interaction surface.
type GatewayOptions struct {
	Key         string         `json:"key"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OrderID     string         `json:"order_id"`
	Prefill     GatewayPrefill `json:"prefill"`
	Theme       GatewayTheme   `json:"theme"`
}

type GatewayPrefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type GatewayTheme struct {
	Color string `json:"color"`
}

// CheckoutCompletedEvent is published after an order is durably saved.
type CheckoutCompletedEvent struct {
	Event      string    `json:"event"` // "checkout.completed"
	CheckoutID string    `json:"checkout_id"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	UserID     string    `json:"user_id"`
	Total      int64     `json:"total"`
	Currency   string    `json:"currency"`
	Timestamp  time.Time `json:"timestamp"`
}
