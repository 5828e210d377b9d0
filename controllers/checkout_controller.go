package controllers

import (
	"net/http"

	"checkout-service/middleware"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Service *services.CheckoutService
	Logger  *zap.Logger
}

// BeginCheckout starts a checkout attempt and returns the gateway options
// the front-end needs to open the payment surface.
func (cc *CheckoutController) BeginCheckout(c *gin.Context) {
	var form models.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token := middleware.SessionToken(c)
	result, svcErr := cc.Service.Begin(c.Request.Context(), token, form)
	if svcErr != nil {
		body := gin.H{"error": svcErr.Message}
		if svcErr.StatusCode == http.StatusUnauthorized {
			body["redirect_to"] = services.LoginRedirect
		}
		c.JSON(svcErr.StatusCode, body)
		return
	}

	c.JSON(http.StatusAccepted, result)
}

// ConfirmPayment is the gateway's completion callback. It carries the signed
// confirmation tuple and resolves the waiting checkout.
func (cc *CheckoutController) ConfirmPayment(c *gin.Context) {
	checkoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout id"})
		return
	}

	var conf models.PaymentConfirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if svcErr := cc.Service.Confirm(c.Request.Context(), checkoutID, conf); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

// GetCheckout returns the state of a checkout attempt so the front-end can
// follow the redirect target once the attempt settles.
func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	checkoutID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout id"})
		return
	}

	token := middleware.SessionToken(c)
	session, svcErr := cc.Service.Get(c.Request.Context(), checkoutID, token)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, session)
}
