// Package handler exposes the order processor over HTTP.
package handler

import (
	"context"
	"net/http"

	"github.com/xenking/order-processor/internal/domain/order"
)

const defaultMaxBodyBytes = 1 << 20

// Processor processes a single order.
type Processor interface {
	Process(ctx context.Context, o *order.Order) error
}

// Lister lists persisted orders.
type Lister interface {
	List(ctx context.Context) ([]order.Order, error)
}

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// StrictCustomerType rejects unknown customer types instead of treating
	// them as "Other".
	StrictCustomerType bool
	// MaxBodyBytes limits request bodies. Zero means 1 MiB.
	MaxBodyBytes int64
}

// Handler serves the order API.
type Handler struct {
	processor    Processor
	orders       Lister
	strict       bool
	maxBodyBytes int64
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(cfg HandlerConfig, processor Processor, orders Lister) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	return &Handler{
		processor:    processor,
		orders:       orders,
		strict:       cfg.StrictCustomerType,
		maxBodyBytes: maxBody,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.PlaceOrder)
	mux.HandleFunc("GET /api/orders", h.ListOrders)
}
