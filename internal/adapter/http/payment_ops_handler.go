package http

import (
	"net/http"

	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentOpsHandler exposes the operator-facing gateway operations the
// checkout flow itself never calls: void (cancel) and refund.
type PaymentOpsHandler struct {
	payments *usecase.PaymentService
}

func NewPaymentOpsHandler(payments *usecase.PaymentService) *PaymentOpsHandler {
	return &PaymentOpsHandler{payments: payments}
}

// Cancel voids a same-day payment in full.
// POST /v1/payments/:id/cancel?provider=iyzico
func (h *PaymentOpsHandler) Cancel(c *gin.Context) {
	prov, err := h.payments.Provider(c.Query("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := prov.CancelPayment(c.Request.Context(), c.Param("id"), c.ClientIP()); err != nil {
		logging.From(c).Error("cancel failed", "payment_id", c.Param("id"), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "cancel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type refundReq struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Provider      string `json:"provider"`
}

// Refund refunds one payment transaction, partially or in full.
func (h *PaymentOpsHandler) Refund(c *gin.Context) {
	var req refundReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() || amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	prov, err := h.payments.Provider(req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := prov.RefundPayment(c.Request.Context(), req.TransactionID, amount, c.ClientIP()); err != nil {
		logging.From(c).Error("refund failed", "transaction_id", req.TransactionID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "refund failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
