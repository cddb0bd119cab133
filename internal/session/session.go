// Package session manages the admin session: a persisted flag set by a PIN
// login and the signed tokens handed to the admin client.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidPIN   = errors.New("invalid PIN")
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	sessionValue = "true"
	adminSubject = "admin"
)

// Config holds the admin credentials and token settings
type Config struct {
	PIN      string
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Manager owns the admin session slot
type Manager struct {
	store  storage.Store
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// NewManager creates a session manager on top of a slot store
func NewManager(store storage.Store, cfg Config, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// SetClock overrides the clock used for token timestamps
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// Login compares pin with the configured PIN. On success it marks the
// session as authenticated and returns a signed token.
func (m *Manager) Login(ctx context.Context, pin string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(m.cfg.PIN)) != 1 {
		m.logger.Warn("admin login rejected")
		return "", ErrInvalidPIN
	}

	if err := m.store.Set(ctx, storage.AdminSessionKey, sessionValue); err != nil {
		return "", fmt.Errorf("persist admin session: %w", err)
	}

	token, err := m.issue()
	if err != nil {
		return "", err
	}

	m.logger.Info("admin logged in")
	return token, nil
}

// Logout clears the session flag, invalidating every issued token
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, storage.AdminSessionKey); err != nil {
		return fmt.Errorf("clear admin session: %w", err)
	}
	m.logger.Info("admin logged out")
	return nil
}

// IsAuthenticated reports whether the session flag is set
func (m *Manager) IsAuthenticated(ctx context.Context) (bool, error) {
	value, err := m.store.Get(ctx, storage.AdminSessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read admin session: %w", err)
	}
	return value == sessionValue, nil
}

// Verify checks a bearer token and the session flag
func (m *Manager) Verify(ctx context.Context, raw string) error {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	ok, err := m.IsAuthenticated(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: session closed", ErrUnauthorized)
	}
	return nil
}

func (m *Manager) issue() (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   adminSubject,
		Issuer:    m.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}
