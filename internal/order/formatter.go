// Package order turns a cart into the WhatsApp order message and its deep link.
package order

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/cart"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
)

const (
	separator = "------------------------------------------"
	// es-PY short date
	dateLayout = "2/1/2006"
)

// Formatter builds order messages. Now and IntN are the only sources of
// non-determinism and can be replaced in tests.
type Formatter struct {
	Brand    string
	IDPrefix string
	Location *time.Location
	Now      func() time.Time
	IntN     func(n int) int
}

// NewFormatter creates a formatter using the wall clock and the global random source
func NewFormatter(brand, idPrefix string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		Brand:    brand,
		IDPrefix: idPrefix,
		Location: loc,
		Now:      time.Now,
		IntN:     rand.IntN,
	}
}

// NewOrderID returns PREFIX-NNNN with NNNN in [1000, 9999]
func (f *Formatter) NewOrderID() string {
	return fmt.Sprintf("%s-%d", f.IDPrefix, 1000+f.IntN(9000))
}

// FormatOrder renders the cart as an order message.
// It reports false for an empty cart, in which case nothing is produced.
func (f *Formatter) FormatOrder(c models.Cart) (models.Order, bool) {
	if cart.IsEmpty(c) {
		return models.Order{}, false
	}

	id := f.NewOrderID()
	date := f.Now().In(f.Location).Format(dateLayout)
	total := cart.Total(c)

	var b strings.Builder
	fmt.Fprintf(&b, "*🔥 NUEVA ORDEN %s 🔥*\n", f.Brand)
	fmt.Fprintf(&b, "*Orden:* #%s\n", id)
	fmt.Fprintf(&b, "*Fecha:* %s\n", date)
	b.WriteString(separator + "\n\n")

	for _, item := range c.Items {
		fmt.Fprintf(&b, "🛒 *%dx %s*\n", item.Quantity, item.Product.Name)
		fmt.Fprintf(&b, "   _Precio: %s_\n\n", FormatGuarani(cart.LineTotal(item)))
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "💰 *TOTAL A PAGAR: %s*\n\n", FormatGuarani(total))
	fmt.Fprintf(&b, "✅ _Confirmar pedido para %s. ¿Tiempo de entrega estimado?_", DisplayName(f.Brand))

	return models.Order{
		ID:        id,
		Date:      date,
		Message:   b.String(),
		Total:     total,
		ItemCount: cart.ItemCount(c),
	}, true
}

// DisplayName turns "WATABURGUER" into "Wataburguer"
func DisplayName(brand string) string {
	if brand == "" {
		return brand
	}
	lower := strings.ToLower(brand)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
