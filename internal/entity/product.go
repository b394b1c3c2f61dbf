package domain

import "github.com/shopspring/decimal"

// Product is a read-only catalog record. The checkout flow never mutates it.
type Product struct {
	ID          int
	Name        string
	Category    string
	Description string
	UnitPrice   decimal.Decimal
}

type CartLine struct {
	Product  Product
	Quantity int
}

func (l CartLine) Validate() error {
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// LineTotal is UnitPrice × Quantity, exact.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
