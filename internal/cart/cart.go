// Package cart implements the cart aggregation rules as pure functions.
// Inputs are never modified; every operation returns a new cart.
package cart

import (
	"math"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
)

// MaxQuantity caps a single cart line
const MaxQuantity = 999

// AddItem increments the quantity of product if present, otherwise appends it with quantity 1
func AddItem(c models.Cart, product models.Product) models.Cart {
	items := make([]models.CartItem, 0, len(c.Items)+1)
	found := false
	for _, item := range c.Items {
		if item.Product.ID == product.ID {
			if item.Quantity < MaxQuantity {
				item.Quantity++
			}
			found = true
		}
		items = append(items, item)
	}
	if !found {
		items = append(items, models.CartItem{Product: product, Quantity: 1})
	}
	return models.Cart{Items: items}
}

// AdjustQuantity adds delta to the item's quantity, flooring at zero and
// saturating at MaxQuantity. Items that reach zero are dropped; an unknown
// productID leaves the cart unchanged.
func AdjustQuantity(c models.Cart, productID string, delta int) models.Cart {
	items := make([]models.CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Product.ID == productID {
			item.Quantity = adjust(item.Quantity, delta)
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	return models.Cart{Items: items}
}

// Total is the sum of price * quantity over all items, saturating at math.MaxInt64
func Total(c models.Cart) int64 {
	var total int64
	for _, item := range c.Items {
		line := LineTotal(item)
		if total > math.MaxInt64-line {
			return math.MaxInt64
		}
		total += line
	}
	return total
}

// ItemCount is the sum of quantities
func ItemCount(c models.Cart) int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// LineTotal is the price of one cart line, saturating at math.MaxInt64
func LineTotal(item models.CartItem) int64 {
	price, qty := item.Product.Price, int64(item.Quantity)
	if price <= 0 || qty <= 0 {
		return 0
	}
	if price > math.MaxInt64/qty {
		return math.MaxInt64
	}
	return price * qty
}

// IsEmpty reports whether the cart has no items
func IsEmpty(c models.Cart) bool {
	return len(c.Items) == 0
}

// Clear returns an empty cart
func Clear() models.Cart {
	return models.Cart{Items: []models.CartItem{}}
}

// adjust applies delta to q without wrapping; q is always in [0, MaxQuantity]
func adjust(q, delta int) int {
	if delta > 0 && q > MaxQuantity-delta {
		return MaxQuantity
	}
	return min(MaxQuantity, max(0, q+delta))
}
