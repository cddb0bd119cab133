// Package view tracks which screen the storefront shows and whether the cart
// panel is open.
package view

import (
	"fmt"
	"sync"
)

// Screen is one of the two top-level screens
type Screen string

const (
	ScreenMenu  Screen = "MENU"
	ScreenAdmin Screen = "ADMIN"
)

// AdminState is the sub-state of the admin screen
type AdminState string

const (
	AdminLogin         AdminState = "LOGIN"
	AdminAuthenticated AdminState = "AUTHENTICATED"
)

// Action names accepted by Apply
const (
	ActionMenu      = "menu"
	ActionAdmin     = "admin"
	ActionToggle    = "toggle"
	ActionCartOpen  = "cart-open"
	ActionCartClose = "cart-close"
)

// State is a snapshot of the view
type State struct {
	Screen     Screen     `json:"screen"`
	CartOpen   bool       `json:"cartOpen"`
	AdminState AdminState `json:"adminState,omitempty"`
}

// Controller holds the navigation state. The cart panel flag is independent of the screen.
type Controller struct {
	mu       sync.Mutex
	screen   Screen
	cartOpen bool
}

// NewController starts on the menu with the cart closed
func NewController() *Controller {
	return &Controller{screen: ScreenMenu}
}

// ShowMenu switches to the storefront
func (c *Controller) ShowMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = ScreenMenu
}

// ShowAdmin switches to the admin screen
func (c *Controller) ShowAdmin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = ScreenAdmin
}

// Toggle switches between menu and admin, like the header button
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen == ScreenMenu {
		c.screen = ScreenAdmin
	} else {
		c.screen = ScreenMenu
	}
}

// OpenCart shows the cart panel over the current screen
func (c *Controller) OpenCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = true
}

// CloseCart hides the cart panel
func (c *Controller) CloseCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = false
}

// OnLogout returns to the menu
func (c *Controller) OnLogout() {
	c.ShowMenu()
}

// Apply runs a named action
func (c *Controller) Apply(action string) error {
	switch action {
	case ActionMenu:
		c.ShowMenu()
	case ActionAdmin:
		c.ShowAdmin()
	case ActionToggle:
		c.Toggle()
	case ActionCartOpen:
		c.OpenCart()
	case ActionCartClose:
		c.CloseCart()
	default:
		return fmt.Errorf("unknown view action %q", action)
	}
	return nil
}

// Snapshot returns the current state; authenticated picks the admin sub-state
func (c *Controller) Snapshot(authenticated bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{Screen: c.screen, CartOpen: c.cartOpen}
	if c.screen == ScreenAdmin {
		s.AdminState = AdminLogin
		if authenticated {
			s.AdminState = AdminAuthenticated
		}
	}
	return s
}
