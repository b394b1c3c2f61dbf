package usecase

import (
	"context"
	"net/url"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/EnesMalik02/checkout-api/internal/logging"
)

const (
	msgTokenMissing  = "token missing"
	msgPaymentFailed = "payment failed"
	msgServerError   = "server error"
)

// Redirect describes the outcome the browser is sent to after the gateway
// posts back. Parameter presence depends on Status.
type Redirect struct {
	Status    domain.PaymentStatus
	PaymentID string
	Amount    string
	Currency  string
	Message   string
}

// ResultURL renders the redirect target under baseURL.
func (r Redirect) ResultURL(baseURL string) string {
	q := url.Values{}
	q.Set("status", string(r.Status))
	switch r.Status {
	case domain.PaymentStatusSuccess:
		q.Set("paymentId", r.PaymentID)
		q.Set("amount", r.Amount)
		q.Set("currency", r.Currency)
	default:
		q.Set("message", r.Message)
	}
	return baseURL + "/order-result?" + q.Encode()
}

// ReconcileCallback turns the gateway's asynchronous post-back into a final
// redirect. Two states only: pending on token receipt, resolved once the
// outcome is mapped. Faults are swallowed at this boundary; the browser is
// mid-redirect and must never see a raw error.
type ReconcileCallback struct {
	payments *PaymentService
	sessions SessionStore
}

func NewReconcileCallback(payments *PaymentService, sessions SessionStore) *ReconcileCallback {
	return &ReconcileCallback{payments: payments, sessions: sessions}
}

func (uc *ReconcileCallback) Execute(ctx context.Context, token, providerName string) Redirect {
	log := logging.FromCtx(ctx)

	if token == "" {
		return Redirect{Status: domain.PaymentStatusError, Message: msgTokenMissing}
	}

	prov, err := uc.payments.Provider(providerName)
	if err != nil {
		log.Error("callback for unknown provider", "provider", providerName, "error", err)
		return Redirect{Status: domain.PaymentStatusError, Message: msgServerError}
	}

	out, err := prov.RetrievePaymentDetails(ctx, token)
	if err != nil {
		log.Error("payment retrieval failed", "provider", prov.Name(), "error", err)
		return Redirect{Status: domain.PaymentStatusError, Message: msgServerError}
	}

	if out.Status == domain.PaymentStatusSuccess {
		uc.resolve(ctx, token, SessionPaid, out.PaymentID)
		return Redirect{
			Status:    domain.PaymentStatusSuccess,
			PaymentID: out.PaymentID,
			Amount:    out.PaidAmount,
			Currency:  out.Currency,
		}
	}

	uc.resolve(ctx, token, SessionFailed, "")
	msg := out.ErrorMessage
	if msg == "" {
		msg = msgPaymentFailed
	}
	return Redirect{Status: domain.PaymentStatusFailure, Message: msg}
}

func (uc *ReconcileCallback) resolve(ctx context.Context, token, status, paymentID string) {
	if uc.sessions == nil {
		return
	}
	if err := uc.sessions.Resolve(ctx, token, status, paymentID); err != nil {
		logging.FromCtx(ctx).Warn("session resolve failed", "token", token, "error", err)
	}
}
