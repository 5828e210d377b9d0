package repositories

import (
	"context"

	"checkout-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutRepository defines the interface for checkout data access
type CheckoutRepository interface {
	CreateSession(ctx context.Context, session *models.CheckoutSession) error
	UpdateSession(ctx context.Context, session *models.CheckoutSession) error
	FindSession(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error)
	EnqueuePendingOrder(ctx context.Context, pending *models.PendingOrder) error
	FindPendingOrders(ctx context.Context, limit int) ([]models.PendingOrder, error)
	UpdatePendingOrder(ctx context.Context, pending *models.PendingOrder) error
}

// GormCheckoutRepository implements CheckoutRepository using GORM
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new instance of GormCheckoutRepository
func NewGormCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

func (r *GormCheckoutRepository) CreateSession(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *GormCheckoutRepository) UpdateSession(ctx context.Context, session *models.CheckoutSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *GormCheckoutRepository) FindSession(ctx context.Context, id uuid.UUID) (*models.CheckoutSession, error) {
	var session models.CheckoutSession
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormCheckoutRepository) EnqueuePendingOrder(ctx context.Context, pending *models.PendingOrder) error {
	return r.db.WithContext(ctx).Create(pending).Error
}

// FindPendingOrders returns unreconciled rows, oldest first
func (r *GormCheckoutRepository) FindPendingOrders(ctx context.Context, limit int) ([]models.PendingOrder, error) {
	var pending []models.PendingOrder
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.PendingOrderStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

func (r *GormCheckoutRepository) UpdatePendingOrder(ctx context.Context, pending *models.PendingOrder) error {
	return r.db.WithContext(ctx).Save(pending).Error
}
