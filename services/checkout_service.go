package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"checkout-service/metrics"
	"checkout-service/models"
	repositories "checkout-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentOrderInitiator requests creation of a remote payment order.
type PaymentOrderInitiator interface {
	CreateOrder(ctx context.Context, amount int64) (*models.PaymentOrder, error)
}

// OrderPersister submits a serialized order record for durable storage.
type OrderPersister interface {
	Save(ctx context.Context, record []byte, idempotencyKey string) (string, error)
}

// PaymentCollector delegates collection to the external gateway and resolves
// it through the completion callback.
type PaymentCollector interface {
	Open(checkoutID uuid.UUID, order models.PaymentOrder, customer models.Customer, form models.CheckoutForm) models.GatewayOptions
	Collect(ctx context.Context, checkoutID uuid.UUID) (models.PaymentConfirmation, error)
	Deliver(checkoutID uuid.UUID, conf models.PaymentConfirmation) error
}

// CartContainer is the caller-owned cart state. Checkout reads it and clears
// it only after the persister reports success.
type CartContainer interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

// EventProducer publishes checkout lifecycle events (best-effort).
type EventProducer interface {
	SendCheckoutEvent(event models.CheckoutCompletedEvent) error
}

// LoginRedirect is where callers send an unauthenticated user.
const LoginRedirect = "/login"

const thankYouRedirect = "/thank-you?orderId="

// swapped in tests
var timeNow = time.Now

type CheckoutService struct {
	gate      *IdentityGate
	cart      CartContainer
	payments  PaymentOrderInitiator
	collector PaymentCollector
	orders    OrderPersister
	repo      repositories.CheckoutRepository
	producer  EventProducer
	metrics   *metrics.CheckoutMetrics
	logger    *zap.Logger

	// rootCtx bounds the indefinite gateway wait to the process lifetime;
	// there is no per-checkout timeout.
	rootCtx context.Context

	deliveryCharge int64
	currency       string
}

func NewCheckoutService(
	rootCtx context.Context,
	gate *IdentityGate,
	cart CartContainer,
	payments PaymentOrderInitiator,
	collector PaymentCollector,
	orders OrderPersister,
	repo repositories.CheckoutRepository,
	producer EventProducer,
	m *metrics.CheckoutMetrics,
	deliveryCharge int64,
	currency string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		gate:           gate,
		cart:           cart,
		payments:       payments,
		collector:      collector,
		orders:         orders,
		repo:           repo,
		producer:       producer,
		metrics:        m,
		logger:         logger,
		rootCtx:        rootCtx,
		deliveryCharge: deliveryCharge,
		currency:       currency,
	}
}

// BeginResult is returned once the gateway interaction surface can be opened.
type BeginResult struct {
	CheckoutID     uuid.UUID             `json:"checkout_id"`
	Status         models.CheckoutStatus `json:"status"`
	Amounts        Amounts               `json:"amounts"`
	GatewayOptions models.GatewayOptions `json:"gateway_options"`
}

// Begin runs the pre-payment stages of a checkout attempt: identity gate,
// amount calculation, and remote payment-order creation. On success the
// checkout is left awaiting the gateway confirmation and a goroutine blocks
// in Collect to finish the attempt.
func (s *CheckoutService) Begin(ctx context.Context, sessionToken string, form models.CheckoutForm) (*BeginResult, *ServiceError) {
	// Auth gate: no session means no network activity at all.
	customer, err := s.gate.Verify(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, ErrAuthMissing) {
			s.countFailure(models.StageAuth)
			return nil, &ServiceError{
				StatusCode: http.StatusUnauthorized,
				Message:    "Please login to proceed with the order.",
				Err:        ErrAuthMissing,
			}
		}
		s.logger.Error("session lookup failed", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to verify session", Err: err}
	}

	cart, err := s.cart.GetCart(ctx, customer.ID)
	if err != nil {
		s.logger.Error("cart fetch failed", zap.String("user_id", customer.ID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load cart", Err: err}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty", Err: ErrCartEmpty}
	}

	// Snapshot the cart; it is immutable from here on.
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)

	session := &models.CheckoutSession{
		ID:     uuid.New(),
		UserID: customer.ID,
		Status: models.CheckoutStatusPending,
	}
	if err := s.advance(session, models.CheckoutStatusAuthChecking); err != nil {
		return nil, s.internal(err)
	}
	if err := s.advance(session, models.CheckoutStatusCalculating); err != nil {
		return nil, s.internal(err)
	}

	amounts := ComputeAmounts(items, s.deliveryCharge)
	snapshot, err := json.Marshal(items)
	if err != nil {
		return nil, s.internal(err)
	}
	session.CartSnapshot = snapshot
	session.Subtotal = amounts.Subtotal
	session.DeliveryCharge = amounts.DeliveryCharge
	session.Total = amounts.Total
	session.Currency = s.currency

	// First durable write happens together with the first side effect.
	if err := s.advance(session, models.CheckoutStatusCreatingOrder); err != nil {
		return nil, s.internal(err)
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to create checkout session", zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to start checkout", Err: err}
	}

	// The requested amount is always the locally computed total.
	order, err := s.payments.CreateOrder(ctx, amounts.Total)
	if err != nil {
		s.failSession(session, models.StageOrderCreation, "Payment could not be processed.")
		s.logger.Warn("remote order creation failed",
			zap.String("checkout_id", session.ID.String()), zap.Error(err))
		return nil, &ServiceError{
			StatusCode: http.StatusBadGateway,
			Message:    "Payment could not be processed.",
			Err:        err,
		}
	}
	if order.Currency == "" {
		order.Currency = s.currency
	}
	if order.Amount != amounts.Total {
		// The remote value is authoritative for display only.
		s.logger.Warn("remote order amount differs from computed total",
			zap.String("checkout_id", session.ID.String()),
			zap.Int64("requested", amounts.Total),
			zap.Int64("returned", order.Amount))
	}

	session.GatewayOrderID = order.ID
	session.Currency = order.Currency
	if err := s.advance(session, models.CheckoutStatusAwaitingGateway); err != nil {
		return nil, s.internal(err)
	}
	// The collection is opened only once the session is durably awaiting the
	// gateway, so a failed write leaves nothing registered behind.
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		s.logger.Error("failed to update checkout session", zap.Error(err))
		s.failSession(session, models.StageGateway, "Failed to start checkout")
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to start checkout", Err: err}
	}
	options := s.collector.Open(session.ID, *order, *customer, form)

	go s.awaitAndFinalize(session, *customer, form, items, amounts)

	s.logger.Info("checkout awaiting gateway confirmation",
		zap.String("checkout_id", session.ID.String()),
		zap.String("gateway_order_id", order.ID),
		zap.Int64("total", amounts.Total))

	return &BeginResult{
		CheckoutID:     session.ID,
		Status:         session.Status,
		Amounts:        amounts,
		GatewayOptions: options,
	}, nil
}

// Confirm delivers the gateway completion callback into the waiting
// checkout. It is the sole channel by which a confirmation is produced.
func (s *CheckoutService) Confirm(ctx context.Context, checkoutID uuid.UUID, conf models.PaymentConfirmation) *ServiceError {
	session, err := s.repo.FindSession(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "Checkout not found", Err: ErrCheckoutNotFound}
		}
		return s.internal(err)
	}
	if session.Status != models.CheckoutStatusAwaitingGateway {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Checkout is not awaiting payment", Err: ErrNotAwaitingGateway}
	}

	if err := s.collector.Deliver(checkoutID, conf); err != nil {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Checkout is not awaiting payment", Err: err}
	}
	return nil
}

// Get returns the current state of a checkout attempt for its owner.
func (s *CheckoutService) Get(ctx context.Context, checkoutID uuid.UUID, sessionToken string) (*models.CheckoutSession, *ServiceError) {
	customer, err := s.gate.Verify(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, ErrAuthMissing) {
			return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Please login to proceed with the order.", Err: ErrAuthMissing}
		}
		return nil, s.internal(err)
	}

	session, err := s.repo.FindSession(ctx, checkoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Checkout not found", Err: ErrCheckoutNotFound}
		}
		return nil, s.internal(err)
	}
	if session.UserID != customer.ID {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "Checkout not found", Err: ErrCheckoutNotFound}
	}
	return session, nil
}

// awaitAndFinalize is the post-suspension half of the state machine: it
// blocks until the gateway calls back, then persists the order and
// finalizes cart state.
func (s *CheckoutService) awaitAndFinalize(session *models.CheckoutSession, customer models.Customer, form models.CheckoutForm, items []models.CartItem, amounts Amounts) {
	conf, err := s.collector.Collect(s.rootCtx, session.ID)
	if err != nil {
		// Only reachable on process shutdown or an empty callback payload;
		// user abandonment simply never resolves the collection.
		s.failSession(session, models.StageGateway, "Payment was not completed.")
		s.logger.Warn("gateway collection ended without confirmation",
			zap.String("checkout_id", session.ID.String()), zap.Error(err))
		return
	}

	session.PaymentID = conf.PaymentID
	if err := s.advance(session, models.CheckoutStatusPersisting); err != nil {
		s.logger.Error("illegal transition to persisting", zap.Error(err))
		return
	}
	if err := s.repo.UpdateSession(s.rootCtx, session); err != nil {
		s.logger.Error("failed to persist checkout state", zap.Error(err))
	}

	// An order record exists only once a non-empty confirmation does.
	record := models.OrderRecord{
		CustomerName:      form.Name,
		CustomerEmail:     form.Email,
		DeliveryAddress:   form.Address,
		Items:             items,
		Subtotal:          amounts.Subtotal,
		DeliveryCharge:    amounts.DeliveryCharge,
		Total:             amounts.Total,
		UserID:            customer.ID,
		PaymentID:         conf.PaymentID,
		RazorpayOrderID:   conf.OrderID,
		RazorpaySignature: conf.Signature,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.failSession(session, models.StagePersistence, "Payment succeeded, but saving order failed.")
		return
	}

	orderID, err := s.orders.Save(s.rootCtx, payload, conf.PaymentID)
	if err != nil {
		s.handlePersistenceFailure(session, conf, payload)
		return
	}

	s.complete(session, orderID)
}

func (s *CheckoutService) complete(session *models.CheckoutSession, orderID string) {
	session.OrderID = orderID
	session.RedirectTo = thankYouRedirect + orderID
	if err := s.advance(session, models.CheckoutStatusCompleted); err != nil {
		s.logger.Error("illegal transition to completed", zap.Error(err))
		return
	}
	if err := s.repo.UpdateSession(s.rootCtx, session); err != nil {
		s.logger.Error("failed to persist completed checkout", zap.Error(err))
	}

	// Cart is cleared strictly after the persister reported success.
	if err := s.cart.ClearCart(s.rootCtx, session.UserID); err != nil {
		s.logger.Error("failed to clear cart after checkout",
			zap.String("user_id", session.UserID), zap.Error(err))
	}

	if s.producer != nil {
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
		if err := s.producer.SendCheckoutEvent(event); err != nil {
			// best-effort; the order is already durable
			s.logger.Warn("failed to publish checkout event", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.Completed.Inc()
	}

	s.logger.Info("checkout completed",
		zap.String("checkout_id", session.ID.String()),
		zap.String("order_id", orderID))
}

// handlePersistenceFailure covers the one irreversible partial failure:
// money has moved but no order exists. The cart stays intact, the user gets
// a distinct message, and the record is queued for idempotent reconciliation
// keyed by the gateway's payment id.
func (s *CheckoutService) handlePersistenceFailure(session *models.CheckoutSession, conf models.PaymentConfirmation, payload []byte) {
	s.failSession(session, models.StagePersistence,
		"Payment succeeded, but saving your order failed. It will be retried automatically; do not pay again.")

	pending := &models.PendingOrder{
		ID:             uuid.New(),
		CheckoutID:     session.ID,
		PaymentID:      conf.PaymentID,
		GatewayOrderID: conf.OrderID,
		Record:         payload,
		Status:         models.PendingOrderStatusPending,
	}
	if err := s.repo.EnqueuePendingOrder(s.rootCtx, pending); err != nil {
		s.logger.Error("failed to queue pending order for reconciliation",
			zap.String("checkout_id", session.ID.String()),
			zap.String("payment_id", conf.PaymentID),
			zap.Error(err))
		return
	}

	s.logger.Warn("order persistence failed after payment capture; queued for reconciliation",
		zap.String("checkout_id", session.ID.String()),
		zap.String("payment_id", conf.PaymentID))
}

func (s *CheckoutService) advance(session *models.CheckoutSession, next models.CheckoutStatus) error {
	if !session.Status.CanTransitionTo(next) {
		return errors.New("illegal checkout transition: " + session.Status.String() + " -> " + next.String())
	}
	session.Status = next
	return nil
}

func (s *CheckoutService) failSession(session *models.CheckoutSession, stage models.FailureStage, message string) {
	session.Status = models.CheckoutStatusFailed
	session.FailStage = stage
	session.Message = message
	if err := s.repo.UpdateSession(s.rootCtx, session); err != nil {
		s.logger.Error("failed to persist failed checkout", zap.Error(err))
	}
	s.countFailure(stage)
}

func (s *CheckoutService) countFailure(stage models.FailureStage) {
	if s.metrics != nil {
		s.metrics.Failed.WithLabelValues(string(stage)).Inc()
	}
}

func (s *CheckoutService) internal(err error) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Internal error", Err: err}
}
