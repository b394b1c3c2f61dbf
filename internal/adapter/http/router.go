package http

import (
	"github.com/EnesMalik02/checkout-api/internal/adapter/http/middleware"
	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(ch *CheckoutHandler, cb *CallbackHandler, ops *PaymentOpsHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/token", th.IssueToken)
		v1.GET("/products", ch.ListProducts)
		v1.POST("/checkout", ch.Checkout)
		// the gateway may POST the form or GET with a query parameter
		v1.POST("/payment/callback", cb.HandleCallback)
		v1.GET("/payment/callback", cb.HandleCallback)
		v1.GET("/checkout/sessions/:token", cb.GetSession)

		// operator-only: cancel/refund move money and require a token
		pay := v1.Group("/payments", authz.Require("payments.write"))
		pay.POST("/:id/cancel", ops.Cancel)
		pay.POST("/refund", ops.Refund)
	}

	return r
}
