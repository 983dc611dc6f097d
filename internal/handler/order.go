package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-processor/internal/domain/order"
	"github.com/xenking/order-processor/pkg/httpmiddleware"
)

// PlaceOrder decodes an order request, processes it and responds with the
// processed order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpmiddleware.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		httpmiddleware.WriteError(w, http.StatusBadRequest, "read request body")
		return
	}

	var req order.Request
	if err := req.UnmarshalJSON(body); err != nil {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "malformed order: "+err.Error())
		return
	}

	o, err := req.Order(h.strict)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	if err := h.processor.Process(r.Context(), o); err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	var e jx.Encoder
	o.Encode(&e)
	writeJSON(w, http.StatusCreated, e.Bytes())
}

// ListOrders responds with every persisted order.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("List orders", zap.Error(err))
		httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var e jx.Encoder
	e.ArrStart()
	for i := range orders {
		orders[i].Encode(&e)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e.Bytes())
}

// writeOrderError maps validation failures to 400 and everything else to 500.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *order.ValidationError
	if errors.As(err, &verr) {
		httpmiddleware.WriteError(w, http.StatusBadRequest, verr.Error())
		return
	}
	zctx.From(r.Context()).Error("Process order", zap.Error(err))
	httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
