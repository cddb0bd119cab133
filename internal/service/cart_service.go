package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/cart"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrEmptyCart = errors.New("cart is empty")

var ordersCheckedOut = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_checked_out_total",
	Help: "Orders handed off to the messaging app",
})

// ProductLookup finds catalog products by ID
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// CartService holds the storefront cart and turns it into orders
type CartService struct {
	products    ProductLookup
	formatter   *order.Formatter
	links       order.LinkBuilder
	destination string
	logger      *slog.Logger

	mu   sync.Mutex
	cart models.Cart
	// order for the current cart contents; dropped on every cart change
	pending *models.Order
}

// NewCartService creates a cart service with an empty cart
func NewCartService(products ProductLookup, formatter *order.Formatter, links order.LinkBuilder, destination string, logger *slog.Logger) *CartService {
	return &CartService{
		products:    products,
		formatter:   formatter,
		links:       links,
		destination: destination,
		logger:      logger,
		cart:        cart.Clear(),
	}
}

// Cart returns a copy of the current cart
func (s *CartService) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AddProduct adds one unit of a catalog product
func (s *CartService) AddProduct(ctx context.Context, productID string) (models.Cart, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return models.Cart{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.AddItem(s.cart, *product)
	s.pending = nil
	return s.snapshot(), nil
}

// Adjust changes an item's quantity by delta
func (s *CartService) Adjust(productID string, delta int) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.AdjustQuantity(s.cart, productID, delta)
	s.pending = nil
	return s.snapshot()
}

// Clear empties the cart
func (s *CartService) Clear() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.Clear()
	s.pending = nil
	return s.snapshot()
}

// Checkout returns the order for the current cart with its WhatsApp link.
// Repeated checkouts of an unchanged cart return the same order. The cart is
// left as is; clearing it is a separate call.
func (s *CartService) Checkout() (*models.Order, error) {
	o, err := s.pendingOrder()
	if err != nil {
		return nil, err
	}

	ordersCheckedOut.Inc()
	s.logger.Info("order checked out", "order_id", o.ID, "items_count", o.ItemCount, "total", o.Total)
	return o, nil
}

// CheckoutQRCode renders the checkout link of the current cart as a PNG QR code
func (s *CartService) CheckoutQRCode(size int) ([]byte, error) {
	o, err := s.pendingOrder()
	if err != nil {
		return nil, err
	}
	return order.QRCode(o.Link, size)
}

func (s *CartService) pendingOrder() (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		o, ok := s.formatter.FormatOrder(s.snapshot())
		if !ok {
			return nil, ErrEmptyCart
		}
		o.Link = s.links.Build(o.Message, s.destination)
		s.pending = &o
	}

	o := *s.pending
	return &o, nil
}

func (s *CartService) snapshot() models.Cart {
	return models.Cart{Items: slices.Clone(s.cart.Items)}
}
