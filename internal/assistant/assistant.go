// Package assistant produces short promotional descriptions for menu items.
// Callers always receive text: every failure resolves to a fixed fallback sentence.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// FallbackDescription is returned when the generation request fails
	FallbackDescription = "Una explosión de sabor artesanal que no te puedes perder."
	// EmptyTextFallback is returned when the generator answers without text
	EmptyTextFallback = "Sabor artesanal único con ingredientes premium seleccionados."
)

// ErrNotConfigured means the generator has no credentials
var ErrNotConfigured = errors.New("assistant: generator credentials not configured")

var describeOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "description_requests_total",
		Help: "Description requests by outcome",
	},
	[]string{"outcome"},
)

// Describer returns a promotional sentence for a product name. It never fails.
type Describer interface {
	Describe(ctx context.Context, productName string) string
}

// Generator is the remote text-generation service
type Generator interface {
	Generate(ctx context.Context, productName string) (string, error)
}

// Assistant calls a Generator in-process and absorbs its failures
type Assistant struct {
	generator Generator
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an Assistant. A nil generator always yields FallbackDescription;
// a zero timeout leaves the deadline to the caller's context.
func New(generator Generator, timeout time.Duration, logger *slog.Logger) *Assistant {
	return &Assistant{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Describe implements Describer
func (a *Assistant) Describe(ctx context.Context, productName string) string {
	if a.generator == nil {
		a.logger.Warn("description generator not configured, using fallback")
		return fallback("unconfigured")
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.generator.Generate(ctx, productName)
	if err != nil {
		a.logger.Error("description generation failed", "product_name", productName, "error", err)
		return fallback("error")
	}

	return clean(text)
}

func fallback(outcome string) string {
	describeOutcomes.WithLabelValues(outcome).Inc()
	return FallbackDescription
}

func clean(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		describeOutcomes.WithLabelValues("empty").Inc()
		return EmptyTextFallback
	}
	describeOutcomes.WithLabelValues("generated").Inc()
	return text
}

var _ Describer = (*Assistant)(nil)
