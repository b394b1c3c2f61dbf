// Package catalog holds the static product list the storefront sells.
// Lookups report absence with a bool so callers can tell "unknown product"
// apart from a transport fault.
package catalog

import (
	domain "github.com/EnesMalik02/checkout-api/internal/entity"
	"github.com/shopspring/decimal"
)

type Catalog struct {
	byID  map[int]domain.Product
	order []int
}

func New(products []domain.Product) *Catalog {
	c := &Catalog{byID: make(map[int]domain.Product, len(products))}
	for _, p := range products {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// Default returns the catalog the demo storefront ships with.
func Default() *Catalog {
	return New([]domain.Product{
		{
			ID:          1,
			Name:        "iPhone 15 Pro",
			Category:    "Elektronik",
			Description: "Apple iPhone 15 Pro 128GB Natural Titanium",
			UnitPrice:   decimal.RequireFromString("45999"),
		},
		{
			ID:          2,
			Name:        "Samsung Galaxy S24",
			Category:    "Elektronik",
			Description: "Samsung Galaxy S24 256GB Black",
			UnitPrice:   decimal.RequireFromString("38999"),
		},
		{
			ID:          3,
			Name:        "MacBook Air M3",
			Category:    "Bilgisayar",
			Description: "Apple MacBook Air 13\" M3 8GB RAM 256GB SSD",
			UnitPrice:   decimal.RequireFromString("54999"),
		},
	})
}

func (c *Catalog) Product(id int) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) UnitPrice(id int) (decimal.Decimal, bool) {
	p, ok := c.byID[id]
	if !ok {
		return decimal.Decimal{}, false
	}
	return p.UnitPrice, true
}

// List returns products in insertion order, for the storefront listing.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
