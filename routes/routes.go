package routes

import (
	"net/http"

	"checkout-service/controllers"
	"checkout-service/metrics"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.SessionMiddleware())
	checkout.POST("", cc.BeginCheckout)
	checkout.GET("/:id", cc.GetCheckout)

	// Gateway completion callback (no session; the gateway calls it)
	r.POST("/checkout/:id/confirm", cc.ConfirmPayment)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
