package usecase

import (
	"fmt"

	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItemInput struct {
	ProductID int
	Quantity  int
}

// OrderBuilder normalizes raw checkout input (buyer form + item pairs) into
// one canonical OrderIntent. Pure transform over its inputs and the catalog.
type OrderBuilder struct {
	catalog Catalog
}

func NewOrderBuilder(catalog Catalog) *OrderBuilder {
	return &OrderBuilder{catalog: catalog}
}

// Build resolves every requested product, computes exact line totals and the
// grand total, and stamps a fresh ConversationID. An unknown product aborts
// the whole build; there are no partial baskets.
func (b *OrderBuilder) Build(buyer domain.BuyerInfo, items []CartItemInput) (domain.OrderIntent, error) {
	if err := buyer.Validate(); err != nil {
		return domain.OrderIntent{}, err
	}
	if len(items) == 0 {
		return domain.OrderIntent{}, domain.ErrEmptyCart
	}

	lines := make([]domain.CartLine, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			return domain.OrderIntent{}, fmt.Errorf("%w: product %d", domain.ErrInvalidQuantity, it.ProductID)
		}
		p, ok := b.catalog.Product(it.ProductID)
		if !ok {
			return domain.OrderIntent{}, fmt.Errorf("%w: %d", domain.ErrProductNotFound, it.ProductID)
		}
		line := domain.CartLine{Product: p, Quantity: it.Quantity}
		lines = append(lines, line)
		total = total.Add(line.LineTotal())
	}

	return domain.OrderIntent{
		ConversationID: uuid.NewString(),
		Lines:          lines,
		GrandTotal:     total,
		Buyer:          buyer,
	}, nil
}
