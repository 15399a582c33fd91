// Package cart models a shopper's cart as an explicit value: product id to
// size to quantity. The storefront owns it; the backend only keeps a mirror.
package cart

import (
	"sort"

	"shop-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Cart maps product id -> size -> quantity. Quantities are always positive.
type Cart map[string]map[string]int

// New returns an empty cart
func New() Cart {
	return Cart{}
}

// Add increments the quantity of a product in a size by one
func (c Cart) Add(productID, size string) {
	sizes, ok := c[productID]
	if !ok {
		sizes = make(map[string]int)
		c[productID] = sizes
	}
	sizes[size]++
}

// Update sets the quantity of a product in a size. A quantity of zero or
// less removes the entry.
func (c Cart) Update(productID, size string, quantity int) {
	if quantity <= 0 {
		sizes, ok := c[productID]
		if !ok {
			return
		}
		delete(sizes, size)
		if len(sizes) == 0 {
			delete(c, productID)
		}
		return
	}

	sizes, ok := c[productID]
	if !ok {
		sizes = make(map[string]int)
		c[productID] = sizes
	}
	sizes[size] = quantity
}

// Count returns the total number of units in the cart
func (c Cart) Count() int {
	n := 0
	for _, sizes := range c {
		for _, qty := range sizes {
			n += qty
		}
	}
	return n
}

// Snapshot resolves the cart against the catalog into order lines, sorted by
// product id then size. Products missing from the catalog are skipped.
func (c Cart) Snapshot(catalog map[string]models.Product) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c))
	for productID, sizes := range c {
		product, ok := catalog[productID]
		if !ok {
			continue
		}
		for size, qty := range sizes {
			items = append(items, models.OrderItem{
				ProductID: productID,
				Name:      product.Name,
				Price:     product.Price,
				Size:      size,
				Quantity:  qty,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].Size < items[j].Size
	})
	return items
}

// Amount is the merchandise total of the resolved cart, excluding delivery
func (c Cart) Amount(catalog map[string]models.Product) float64 {
	total := decimal.Zero
	for _, item := range c.Snapshot(catalog) {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}
