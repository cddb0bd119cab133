package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a slot holds no value
var ErrNotFound = errors.New("storage: key not found")

// Slot names shared by the catalog and the admin session
const (
	CatalogKey      = "burger_master_products"
	AdminSessionKey = "burger_admin_session"
)

// Store is a keyed slot store. Every write replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
