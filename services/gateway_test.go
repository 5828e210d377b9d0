package services

import (
	"context"
	"testing"
	"time"

	"checkout-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCollector() *Collector {
	return NewCollector(GatewayConfig{
		Key:          "key_test",
		MerchantName: "Dreamscape Creation",
		Description:  "Order Payment",
		ThemeColor:   "#212135",
	})
}

func TestCollector_OpenBuildsOptions(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	order := models.PaymentOrder{ID: "rzp_order_1", Amount: 1050, Currency: "INR"}
	customer := models.Customer{ID: "user-1", Name: "Stored Name", Email: "stored@example.com"}
	form := models.CheckoutForm{Name: "Form Name", Email: "form@example.com", Address: "12 Lake Road"}

	opts := c.Open(id, order, customer, form)

	assert.Equal(t, "key_test", opts.Key)
	assert.Equal(t, int64(1050), opts.Amount)
	assert.Equal(t, "INR", opts.Currency)
	assert.Equal(t, "Dreamscape Creation", opts.Name)
	assert.Equal(t, "Order Payment", opts.Description)
	assert.Equal(t, "rzp_order_1", opts.OrderID)
	assert.Equal(t, "#212135", opts.Theme.Color)

	// Form values win over the stored session profile.
	assert.Equal(t, "Form Name", opts.Prefill.Name)
	assert.Equal(t, "form@example.com", opts.Prefill.Email)
}

func TestCollector_PrefillFallsBackToCustomer(t *testing.T) {
	c := testCollector()
	customer := models.Customer{ID: "user-1", Name: "Stored Name", Email: "stored@example.com"}

	opts := c.Open(uuid.New(), models.PaymentOrder{ID: "o"}, customer, models.CheckoutForm{Address: "x"})

	assert.Equal(t, "Stored Name", opts.Prefill.Name)
	assert.Equal(t, "stored@example.com", opts.Prefill.Email)
	assert.NotEmpty(t, opts.Prefill.Contact)
}

func TestCollector_DeliverResolvesCollect(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	c.Open(id, models.PaymentOrder{ID: "o"}, models.Customer{ID: "u"}, models.CheckoutForm{})

	conf := models.PaymentConfirmation{PaymentID: "pay_1", OrderID: "o", Signature: "sig"}
	done := make(chan models.PaymentConfirmation, 1)
	go func() {
		got, err := c.Collect(context.Background(), id)
		if err == nil {
			done <- got
		}
	}()

	require.NoError(t, c.Deliver(id, conf))

	select {
	case got := <-done:
		assert.Equal(t, conf, got)
	case <-time.After(2 * time.Second):
		t.Fatal("Collect never resolved")
	}
}

func TestCollector_DeliverBeforeCollect(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	c.Open(id, models.PaymentOrder{ID: "o"}, models.Customer{ID: "u"}, models.CheckoutForm{})

	// The callback can land before the waiter reaches Collect; the
	// confirmation must be held, not dropped.
	conf := models.PaymentConfirmation{PaymentID: "pay_1", OrderID: "o", Signature: "sig"}
	require.NoError(t, c.Deliver(id, conf))

	got, err := c.Collect(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, conf, got)

	// Consuming the confirmation retires the registration.
	assert.ErrorIs(t, c.Deliver(id, conf), ErrNotAwaitingGateway)
}

func TestCollector_DeliverUnknownCheckout(t *testing.T) {
	c := testCollector()

	err := c.Deliver(uuid.New(), models.PaymentConfirmation{PaymentID: "p", OrderID: "o", Signature: "s"})

	assert.ErrorIs(t, err, ErrNotAwaitingGateway)
}

func TestCollector_DeliverTwice(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	c.Open(id, models.PaymentOrder{ID: "o"}, models.Customer{ID: "u"}, models.CheckoutForm{})

	conf := models.PaymentConfirmation{PaymentID: "p", OrderID: "o", Signature: "s"}
	require.NoError(t, c.Deliver(id, conf))

	assert.ErrorIs(t, c.Deliver(id, conf), ErrNotAwaitingGateway)
}

func TestCollector_CollectCancelled(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	c.Open(id, models.PaymentOrder{ID: "o"}, models.Customer{ID: "u"}, models.CheckoutForm{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Collect(ctx, id)
	assert.ErrorIs(t, err, ErrCollectionAbandoned)

	// The registration is dropped with the wait.
	assert.ErrorIs(t, c.Deliver(id, models.PaymentConfirmation{PaymentID: "p", OrderID: "o", Signature: "s"}), ErrNotAwaitingGateway)
}

func TestCollector_EmptyConfirmationRejected(t *testing.T) {
	c := testCollector()
	id := uuid.New()
	c.Open(id, models.PaymentOrder{ID: "o"}, models.Customer{ID: "u"}, models.CheckoutForm{})

	require.NoError(t, c.Deliver(id, models.PaymentConfirmation{}))

	_, err := c.Collect(context.Background(), id)
	assert.ErrorIs(t, err, ErrEmptyConfirmation)
}

func TestCollector_CollectUnknownCheckout(t *testing.T) {
	c := testCollector()

	_, err := c.Collect(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}
