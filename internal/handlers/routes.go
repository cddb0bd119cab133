package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// API groups the storefront handlers mounted under /api
type API struct {
	Products    *ProductHandler
	Cart        *CartHandler
	Orders      *OrderHandler
	Description *DescriptionHandler
	View        *ViewHandler
	Admin       *AdminHandler

	// RequireAdmin guards the admin routes
	RequireAdmin func(http.Handler) http.Handler
	// DescriptionLimit throttles the description endpoint; nil disables it
	DescriptionLimit func(http.Handler) http.Handler
}

// Routes registers every endpoint on r
func (a *API) Routes(r chi.Router) {
	// Product endpoints
	r.Get("/product", a.Products.ListProducts)
	r.Get("/product/{productId}", a.Products.GetProduct)

	// Cart endpoints
	r.Get("/cart", a.Cart.GetCart)
	r.Delete("/cart", a.Cart.ClearCart)
	r.Post("/cart/items", a.Cart.AddItem)
	r.Patch("/cart/items/{productId}", a.Cart.AdjustItem)

	// Order endpoints
	r.Post("/order/checkout", a.Orders.Checkout)
	r.Get("/order/qrcode", a.Orders.QRCode)

	// Description endpoint answers every method itself so that non-POST gets its JSON 405
	r.Group(func(r chi.Router) {
		if a.DescriptionLimit != nil {
			r.Use(a.DescriptionLimit)
		}
		r.Handle("/generate-description", a.Description)
	})

	// View state machine
	r.Get("/view", a.View.GetView)
	r.Post("/view/{action}", a.View.ApplyAction)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", a.Admin.Login)
		r.Get("/session", a.Admin.Session)

		// Protected admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(a.RequireAdmin)

			r.Post("/logout", a.Admin.Logout)
			r.Post("/products", a.Admin.AddProduct)
			r.Delete("/products/{productId}", a.Admin.DeleteProduct)

			r.Get("/draft", a.Admin.GetDraft)
			r.Put("/draft", a.Admin.UpdateDraft)
			r.Delete("/draft", a.Admin.ResetDraft)
			r.Post("/draft/description", a.Admin.GenerateDraftDescription)
			r.Post("/draft/submit", a.Admin.SubmitDraft)
		})
	})
}
