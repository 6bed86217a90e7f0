package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tambeaditya101/next-ecom-api/internal/auth"
	"github.com/tambeaditya101/next-ecom-api/internal/checkout"
)

type CheckoutHandler struct {
	Service   *checkout.Service
	JWTSecret []byte
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.With(auth.RequireUser(h.JWTSecret)).Post("/api/checkout", h.checkout)
}

type checkoutReq struct {
	Cart   []checkout.Line `json:"cart"`
	UserID int64           `json:"userId"`
}

func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.FromContext(r.Context())
	if !ok {
		respondErr(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	// The body's userId is advisory; the verified identity wins, and a
	// mismatch is rejected outright.
	if req.UserID != 0 && req.UserID != ident.UserID {
		respondErr(w, http.StatusForbidden, "userId does not match authenticated user")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Service.PlaceOrder(ctx, checkout.CartRequest{UserID: ident.UserID, Lines: req.Cart})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, res, "Checkout successful")
}

func (h *CheckoutHandler) writeError(w http.ResponseWriter, err error) {
	var (
		notFound *checkout.ProductNotFoundError
		short    *checkout.InsufficientStockError
	)
	switch {
	case errors.Is(err, checkout.ErrMissingIdentity):
		respondErr(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, checkout.ErrInvalidCart):
		respondErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		respondErr(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &short):
		respondErr(w, http.StatusBadRequest, short.Error())
	default:
		// Persistence and anything unexpected: log the cause, hide it.
		log.Printf("checkout failed: %v", err)
		respondErr(w, http.StatusInternalServerError, "Something went wrong")
	}
}
