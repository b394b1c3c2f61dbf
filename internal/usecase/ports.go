package usecase

import (
	"context"
	"time"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/shopspring/decimal"
)

// PaymentSession is what a provider returns from a checkout-form initialize
// call. A declared gateway failure arrives here as Status failure, never as
// a Go error.
type PaymentSession struct {
	Status       domain.PaymentStatus
	Token        string
	RedirectURL  string
	ErrorMessage string
}

// PaymentOutcome is the terminal result of a token status query. PaidAmount
// is carried verbatim in the gateway's own formatting; it only travels into
// the result URL.
type PaymentOutcome struct {
	Status       domain.PaymentStatus
	PaymentID    string
	PaidAmount   string
	Currency     string
	ErrorMessage string
}

// PaymentProvider is the capability a concrete gateway adapter implements.
// Errors are reserved for transport-level faults (network, config, decode).
type PaymentProvider interface {
	Name() string
	CreateCheckoutForm(ctx context.Context, order domain.OrderIntent) (PaymentSession, error)
	RetrievePaymentDetails(ctx context.Context, token string) (PaymentOutcome, error)
	CancelPayment(ctx context.Context, paymentID, buyerIP string) error
	RefundPayment(ctx context.Context, transactionID string, amount decimal.Decimal, buyerIP string) error
}

// Catalog resolves product IDs; absence is a bool, not an error.
type Catalog interface {
	Product(id int) (domain.Product, bool)
	UnitPrice(id int) (decimal.Decimal, bool)
	List() []domain.Product
}

const (
	SessionPending = "pending"
	SessionPaid    = "paid"
	SessionFailed  = "failed"
)

// CheckoutSession is the TTL-bounded snapshot kept under the gateway token so
// the result page can re-fetch outcome context after the redirect. It is a
// cache, not a system of record.
type CheckoutSession struct {
	ConversationID string    `json:"conversation_id"`
	GrandTotal     string    `json:"grand_total"`
	Currency       string    `json:"currency"`
	BuyerEmail     string    `json:"buyer_email"`
	Status         string    `json:"status"`
	PaymentID      string    `json:"payment_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type SessionStore interface {
	Save(ctx context.Context, token string, s CheckoutSession) error
	Get(ctx context.Context, token string) (CheckoutSession, bool, error)
	Resolve(ctx context.Context, token, status, paymentID string) error
}
