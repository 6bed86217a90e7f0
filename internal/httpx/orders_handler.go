package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tambeaditya101/next-ecom-api/internal/auth"
	"github.com/tambeaditya101/next-ecom-api/internal/orders"
)

type OrdersHandler struct {
	Repo      *orders.Repo
	JWTSecret []byte
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.With(auth.RequireUser(h.JWTSecret)).Get("/api/orders", h.listMine)
	r.With(auth.RequireUser(h.JWTSecret)).Get("/api/orders/{id}", h.get)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Repo.ListByUser(ctx, ident.UserID)
	if err != nil {
		log.Printf("list orders: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	respond(w, http.StatusOK, list, "Orders fetched successfully")
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.FromContext(r.Context())
	id, err := urlID(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid order id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.Get(ctx, id)
	if errors.Is(err, orders.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("get order: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}
	if o.UserID != ident.UserID && ident.Role != auth.RoleAdmin {
		respondErr(w, http.StatusForbidden, "Forbidden")
		return
	}
	respond(w, http.StatusOK, o, "Order fetched successfully")
}
