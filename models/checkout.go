package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is derived from the session store; name/email may be overridden
// by the checkout form.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckoutForm struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"required"`
}

type CheckoutStatus string

const (
	CheckoutStatusPending         CheckoutStatus = "PENDING"
	CheckoutStatusAuthChecking    CheckoutStatus = "AUTH_CHECKING"
	CheckoutStatusCalculating     CheckoutStatus = "CALCULATING"
	CheckoutStatusCreatingOrder   CheckoutStatus = "CREATING_REMOTE_ORDER"
	CheckoutStatusAwaitingGateway CheckoutStatus = "AWAITING_GATEWAY"
	CheckoutStatusPersisting      CheckoutStatus = "PERSISTING"
	CheckoutStatusCompleted       CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed          CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// CanTransitionTo enforces the forward path of the checkout state machine.
// FAILED is reachable from any non-terminal state.
func (s CheckoutStatus) CanTransitionTo(next CheckoutStatus) bool {
	if next == CheckoutStatusFailed {
		return !s.IsTerminal()
	}
	switch s {
	case CheckoutStatusPending:
		return next == CheckoutStatusAuthChecking
	case CheckoutStatusAuthChecking:
		return next == CheckoutStatusCalculating
	case CheckoutStatusCalculating:
		return next == CheckoutStatusCreatingOrder
	case CheckoutStatusCreatingOrder:
		return next == CheckoutStatusAwaitingGateway
	case CheckoutStatusAwaitingGateway:
		return next == CheckoutStatusPersisting
	case CheckoutStatusPersisting:
		return next == CheckoutStatusCompleted
	default:
		return false
	}
}

// FailureStage records which stage a failed checkout was absorbed from.
type FailureStage string

const (
	StageAuth          FailureStage = "auth"
	StageOrderCreation FailureStage = "order_creation"
	StageGateway       FailureStage = "gateway"
	StagePersistence   FailureStage = "persistence"
)

// CheckoutSession is the durable record of a single checkout attempt.
type CheckoutSession struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"checkout_id"`
	UserID         string         `gorm:"not null;index" json:"user_id"`
	Status         CheckoutStatus `gorm:"type:varchar(32);not null" json:"status"`
	FailStage      FailureStage   `gorm:"type:varchar(16)" json:"fail_stage,omitempty"`
	CartSnapshot   []byte         `gorm:"type:jsonb;not null" json:"-"`
	Subtotal       int64          `gorm:"not null" json:"subtotal"`
	DeliveryCharge int64          `gorm:"not null" json:"delivery_charge"`
	Total          int64          `gorm:"not null" json:"total"`
	Currency       string         `gorm:"type:varchar(8);not null" json:"currency"`
	GatewayOrderID string         `gorm:"index" json:"gateway_order_id,omitempty"`
	PaymentID      string         `json:"payment_id,omitempty"`
	OrderID        string         `json:"order_id,omitempty"`
	RedirectTo     string         `json:"redirect_to,omitempty"`
	Message        string         `json:"message,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
