package models

// Category groups products on the menu
type Category string

const (
	CategoryClassic   Category = "Classic"
	CategorySignature Category = "Signature"
	CategorySides     Category = "Sides"
	CategoryDrinks    Category = "Drinks"
)

// Categories lists every menu category in display order
var Categories = []Category{CategoryClassic, CategorySignature, CategorySides, CategoryDrinks}

// Valid reports whether c is one of the known menu categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a menu item offered to customers
// Price is an integer amount in guaraníes
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
}

// ProductDraft is the admin's input for a new product.
// Price is a pointer so that a missing price can be told apart from zero.
type ProductDraft struct {
	Name        string   `json:"name"`
	Price       *int64   `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	Category    Category `json:"category,omitempty"`
}
