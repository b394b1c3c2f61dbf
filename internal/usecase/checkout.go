package usecase

import (
	"context"
	"time"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/EnesMalik02/checkout-api/internal/logging"
)

type CheckoutInput struct {
	Buyer    domain.BuyerInfo
	Items    []CartItemInput
	Provider string
}

type CheckoutOutput struct {
	Status         domain.PaymentStatus
	PaymentPageURL string
	Token          string
	ConversationID string
	ErrorMessage   string
}

// InitiateCheckout builds the order intent and opens a hosted checkout
// session with the selected provider. Either a full OrderIntent is built and
// submitted, or the checkout aborts before any gateway call.
type InitiateCheckout struct {
	builder  *OrderBuilder
	payments *PaymentService
	sessions SessionStore
	currency string
}

func NewInitiateCheckout(builder *OrderBuilder, payments *PaymentService, sessions SessionStore, currency string) *InitiateCheckout {
	return &InitiateCheckout{builder: builder, payments: payments, sessions: sessions, currency: currency}
}

func (uc *InitiateCheckout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	order, err := uc.builder.Build(in.Buyer, in.Items)
	if err != nil {
		return CheckoutOutput{}, err
	}

	prov, err := uc.payments.Provider(in.Provider)
	if err != nil {
		return CheckoutOutput{}, err
	}

	sess, err := prov.CreateCheckoutForm(ctx, order)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if sess.Status != domain.PaymentStatusSuccess {
		msg := sess.ErrorMessage
		if msg == "" {
			msg = "checkout form could not be created"
		}
		return CheckoutOutput{Status: domain.PaymentStatusFailure, ErrorMessage: msg}, nil
	}

	// Best effort: a store failure must not lose a checkout the gateway
	// already accepted.
	if uc.sessions != nil && sess.Token != "" {
		s := CheckoutSession{
			ConversationID: order.ConversationID,
			GrandTotal:     order.GrandTotal.StringFixed(2),
			Currency:       uc.currency,
			BuyerEmail:     order.Buyer.Email,
			Status:         SessionPending,
			CreatedAt:      time.Now().UTC(),
		}
		if err := uc.sessions.Save(ctx, sess.Token, s); err != nil {
			logging.FromCtx(ctx).Warn("session save failed", "token", sess.Token, "error", err)
		}
	}

	return CheckoutOutput{
		Status:         domain.PaymentStatusSuccess,
		PaymentPageURL: sess.RedirectURL,
		Token:          sess.Token,
		ConversationID: order.ConversationID,
	}, nil
}
