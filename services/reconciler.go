package services

import (
	"context"
	"time"

	"checkout-service/metrics"
	"checkout-service/models"
	repositories "checkout-service/repository"

	"go.uber.org/zap"
)

// Reconciler drains the pending-order queue: orders whose payment was
// captured by the gateway but whose record could not be saved. Retries are
// idempotent, keyed by the gateway payment id.
type Reconciler struct {
	repo     repositories.CheckoutRepository
	orders   OrderPersister
	cart     CartContainer
	producer EventProducer
	metrics  *metrics.CheckoutMetrics
	interval time.Duration
	logger   *zap.Logger
}

func NewReconciler(
	repo repositories.CheckoutRepository,
	orders OrderPersister,
	cart CartContainer,
	producer EventProducer,
	m *metrics.CheckoutMetrics,
	interval time.Duration,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		repo:     repo,
		orders:   orders,
		cart:     cart,
		producer: producer,
		metrics:  m,
		interval: interval,
		logger:   logger,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.ProcessPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ProcessPending retries every queued pending order once.
func (r *Reconciler) ProcessPending(ctx context.Context) {
	pending, err := r.repo.FindPendingOrders(ctx, 100)
	if err != nil {
		r.logger.Error("failed to fetch pending orders", zap.Error(err))
		return
	}

	for i := range pending {
		row := &pending[i]
		orderID, saveErr := r.orders.Save(ctx, row.Record, row.PaymentID)
		row.Attempts++
		if saveErr != nil {
			row.LastError = saveErr.Error()
			if err := r.repo.UpdatePendingOrder(ctx, row); err != nil {
				r.logger.Error("failed to update pending order", zap.Error(err))
			}
			r.logger.Warn("pending order retry failed",
				zap.String("payment_id", row.PaymentID),
				zap.Int("attempts", row.Attempts),
				zap.Error(saveErr))
			continue
		}

		row.Status = models.PendingOrderStatusCompleted
		row.LastError = ""
		if err := r.repo.UpdatePendingOrder(ctx, row); err != nil {
			r.logger.Error("failed to mark pending order completed", zap.Error(err))
			continue
		}

		r.finishSession(ctx, row, orderID)
		if r.metrics != nil {
			r.metrics.Reconciled.Inc()
		}
		r.logger.Info("pending order reconciled",
			zap.String("payment_id", row.PaymentID),
			zap.String("order_id", orderID))
	}
}

// finishSession completes the originating checkout now that its order is
// durable. Clearing the cart here still happens strictly after persister
// success.
func (r *Reconciler) finishSession(ctx context.Context, row *models.PendingOrder, orderID string) {
	session, err := r.repo.FindSession(ctx, row.CheckoutID)
	if err != nil {
		r.logger.Warn("reconciled order has no checkout session",
			zap.String("checkout_id", row.CheckoutID.String()), zap.Error(err))
		return
	}
	if session.Status != models.CheckoutStatusFailed || session.FailStage != models.StagePersistence {
		return
	}

	// The per-attempt machine treats FAILED as absorbing; reconciliation is
	// the out-of-band recovery path that supersedes it.
	session.Status = models.CheckoutStatusCompleted
	session.FailStage = ""
	session.Message = ""
	session.OrderID = orderID
	session.RedirectTo = thankYouRedirect + orderID
	if err := r.repo.UpdateSession(ctx, session); err != nil {
		r.logger.Error("failed to complete reconciled session", zap.Error(err))
		return
	}

	if err := r.cart.ClearCart(ctx, session.UserID); err != nil {
		r.logger.Error("failed to clear cart after reconciliation",
			zap.String("user_id", session.UserID), zap.Error(err))
	}

	if r.producer != nil {
		event := models.CheckoutCompletedEvent{
			Event:      "checkout.completed",
			CheckoutID: session.ID.String(),
			OrderID:    orderID,
			PaymentID:  session.PaymentID,
			UserID:     session.UserID,
			Total:      session.Total,
			Currency:   session.Currency,
			Timestamp:  timeNow(),
		}
		if err := r.producer.SendCheckoutEvent(event); err != nil {
			r.logger.Warn("failed to publish reconciled checkout event", zap.Error(err))
		}
	}
}
