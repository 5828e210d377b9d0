package models

import (
	"time"

	"github.com/google/uuid"
)

type PendingOrderStatus string

const (
	PendingOrderStatusPending   PendingOrderStatus = "pending"
	PendingOrderStatusCompleted PendingOrderStatus = "completed"
)

// PendingOrder is queued when payment has been captured by the gateway but
// the order record could not be durably saved. Rows are keyed by the
// gateway's payment identifier so retries stay idempotent.
type PendingOrder struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CheckoutID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	PaymentID      string             `gorm:"uniqueIndex;not null"`
	GatewayOrderID string             `gorm:"not null"`
	Record         []byte             `gorm:"type:jsonb;not null"`
	Status         PendingOrderStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts       int                `gorm:"not null;default:0"`
	LastError      string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}
