package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentClient_CreateOrder(t *testing.T) {
	var gotPath string
	var gotBody CreateOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"rzp_order_1","amount":1050,"currency":"INR"}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, 2*time.Second)
	order, err := client.CreateOrder(context.Background(), 1050)

	require.NoError(t, err)
	assert.Equal(t, "/api/payment/create-order", gotPath)
	assert.Equal(t, int64(1050), gotBody.Amount)
	assert.Equal(t, "rzp_order_1", order.ID)
	assert.Equal(t, int64(1050), order.Amount)
	assert.Equal(t, "INR", order.Currency)
}

func TestPaymentClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, 2*time.Second)
	_, err := client.CreateOrder(context.Background(), 1050)

	assert.ErrorIs(t, err, ErrOrderCreationFailed)
}

func TestPaymentClient_MissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":1050}`))
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, 2*time.Second)
	_, err := client.CreateOrder(context.Background(), 1050)

	assert.ErrorIs(t, err, ErrOrderCreationFailed)
}

func TestPaymentClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewPaymentClient(srv.URL, time.Second)
	_, err := client.CreateOrder(context.Background(), 1050)

	assert.ErrorIs(t, err, ErrOrderCreationFailed)
}
