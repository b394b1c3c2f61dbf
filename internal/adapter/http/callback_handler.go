package http

import (
	"net/http"

	"github.com/EnesMalik02/checkout-api/internal/logging"
	"github.com/EnesMalik02/checkout-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CallbackHandler struct {
	reconcile *usecase.ReconcileCallback
	sessions  usecase.SessionStore
	baseURL   string
}

func NewCallbackHandler(reconcile *usecase.ReconcileCallback, sessions usecase.SessionStore, baseURL string) *CallbackHandler {
	return &CallbackHandler{reconcile: reconcile, sessions: sessions, baseURL: baseURL}
}

// HandleCallback receives the gateway's post-back. The token arrives either
// as a posted form field or a query parameter; both are accepted. The browser
// is mid-redirect from the gateway, so the answer is always a redirect to the
// result page, never an error status.
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	token := c.PostForm("token")
	if token == "" {
		token = c.Query("token")
	}
	provider := c.Query("provider")

	ctx := logging.WithCtx(c.Request.Context(), logging.From(c))
	redirect := h.reconcile.Execute(ctx, token, provider)

	paymentCallbacks.WithLabelValues(string(redirect.Status)).Inc()
	c.Redirect(http.StatusSeeOther, redirect.ResultURL(h.baseURL))
}

// GetSession serves the stored checkout snapshot for the order-result view.
func (h *CallbackHandler) GetSession(c *gin.Context) {
	if h.sessions == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	token := c.Param("token")
	sess, ok, err := h.sessions.Get(c.Request.Context(), token)
	if err != nil {
		logging.From(c).Error("session lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversationId": sess.ConversationID,
		"grandTotal":     sess.GrandTotal,
		"currency":       sess.Currency,
		"buyerEmail":     sess.BuyerEmail,
		"status":         sess.Status,
		"paymentId":      sess.PaymentID,
		"createdAt":      sess.CreatedAt,
	})
}
