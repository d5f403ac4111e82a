package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/cart-drawer/internal/adapter/rpc"
)

const headerIdempotencyKey = "Idempotency-Key"

type HTTPHandler struct {
	cart   CartBackend
	logger *zap.Logger
}

func NewHTTPHandler(cart CartBackend, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{cart: cart, logger: logger}
}

// Routes mirrors the REST surface the cart drawer expects.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	r.Get("/cart", h.GetCart)
	r.Delete("/cart", h.ClearCart)
	r.Post("/cart/checkout", h.Checkout)
	r.Post("/order/{menuItemId}", h.AddItem)
	r.Delete("/order/{menuItemId}", h.RemoveItem)

	return r
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.cart.FetchCart(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpc.CartFromSnapshot(snapshot))
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	menuItemID := chi.URLParam(r, "menuItemId")
	if err := h.cart.AddItem(r.Context(), menuItemID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpc.Ack{Success: true, Message: "item added"})
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	menuItemID := chi.URLParam(r, "menuItemId")
	if err := h.cart.RemoveItem(r.Context(), menuItemID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpc.Ack{Success: true, Message: "item removed"})
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpc.Ack{Success: true, Message: "cart cleared"})
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.cart.Checkout(r.Context(), r.Header.Get(headerIdempotencyKey))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rpc.CheckoutResponse{OrderID: order.ID, TotalPrice: order.TotalPrice})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, message := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, rpc.Ack{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
