package models

// CartItem is one line of the cart: a product snapshot and its quantity (always >= 1)
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds the customer's selection in insertion order
type Cart struct {
	Items []CartItem `json:"items"`
}

// Order is the formatted representation of a cart handed off to WhatsApp
type Order struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"itemCount"`
}
