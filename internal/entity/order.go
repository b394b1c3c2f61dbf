package domain

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailure PaymentStatus = "failure"
	PaymentStatusError   PaymentStatus = "error"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrEmptyCart       = errors.New("empty cart")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidBuyer    = errors.New("invalid buyer info")
	ErrTotalMismatch   = errors.New("grand total does not match lines")
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9()\-\s]{10,}$`)
)

// BuyerInfo is supplied per checkout attempt and never persisted beyond it.
// IdentityNumber and CompanyName are optional; the gateway adapter fills its
// own defaults when they are empty.
type BuyerInfo struct {
	Name           string
	Surname        string
	Email          string
	Phone          string
	Address        string
	City           string
	ZipCode        string
	IdentityNumber string
	CompanyName    string
	IP             string
}

func (b BuyerInfo) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidBuyer)
	}
	if b.Surname == "" {
		return fmt.Errorf("%w: surname required", ErrInvalidBuyer)
	}
	if !emailRe.MatchString(b.Email) {
		return fmt.Errorf("%w: invalid email", ErrInvalidBuyer)
	}
	if !phoneRe.MatchString(b.Phone) {
		return fmt.Errorf("%w: invalid phone", ErrInvalidBuyer)
	}
	return nil
}

// ContactName is the display name the gateway expects on address blocks.
func (b BuyerInfo) ContactName() string {
	return b.Name + " " + b.Surname
}

// OrderIntent is the canonical order shape handed to a payment provider.
// ConversationID is unique per checkout attempt so two concurrent attempts
// from the same buyer never collide on the gateway side.
type OrderIntent struct {
	ConversationID string
	Lines          []CartLine
	GrandTotal     decimal.Decimal
	Buyer          BuyerInfo
}

func (o OrderIntent) Validate() error {
	if len(o.Lines) == 0 {
		return ErrEmptyCart
	}
	sum := decimal.Zero
	for _, l := range o.Lines {
		if err := l.Validate(); err != nil {
			return err
		}
		sum = sum.Add(l.LineTotal())
	}
	if !sum.Equal(o.GrandTotal) {
		return ErrTotalMismatch
	}
	return o.Buyer.Validate()
}
