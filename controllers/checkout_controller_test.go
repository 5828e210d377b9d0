package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"checkout-service/controllers"
	"checkout-service/models"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nilSessions struct{}

func (nilSessions) Get(_ context.Context, _ string) (*models.Customer, error) {
	return nil, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	// A service whose identity gate always rejects; enough for the handler
	// level concerns exercised here.
	svc := services.NewCheckoutService(
		context.Background(),
		services.NewIdentityGate(nilSessions{}),
		nil, nil, nil, nil, nil, nil, nil,
		50, "INR",
		zap.NewNop(),
	)

	r := gin.New()
	routes.RegisterCheckoutRoutes(r, &controllers.CheckoutController{Service: svc, Logger: zap.NewNop()})
	return r
}

func TestBeginCheckout_InvalidBody(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"name":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeginCheckout_UnauthenticatedRedirect(t *testing.T) {
	r := newTestRouter()

	body := `{"name":"Asha","email":"asha@example.com","address":"12 Lake Road"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.LoginRedirect, resp["redirect_to"])
	assert.Equal(t, "Please login to proceed with the order.", resp["error"])
}

func TestConfirmPayment_InvalidCheckoutID(t *testing.T) {
	r := newTestRouter()

	body := `{"razorpay_payment_id":"p","razorpay_order_id":"o","razorpay_signature":"s"}`
	req := httptest.NewRequest(http.MethodPost, "/checkout/not-a-uuid/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmPayment_MissingConfirmationFields(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/checkout/6d2c9a0e-4ad5-4a4b-9a54-29e9f22e7a11/confirm", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
