package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/tambeaditya101/next-ecom-api/internal/auth"
	"github.com/tambeaditya101/next-ecom-api/internal/catalog"
	"github.com/tambeaditya101/next-ecom-api/internal/redisx"
)

type ProductsHandler struct {
	Catalog   *catalog.Repo
	Redis     *redis.Client
	JWTSecret []byte
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	requireAdmin := func(r chi.Router) chi.Router {
		return r.With(auth.RequireUser(h.JWTSecret), auth.RequireAdmin)
	}

	r.Get("/api/products", h.list)
	r.Get("/api/products/{id}", h.get)
	r.Get("/api/categories", h.categories)

	requireAdmin(r).Post("/api/products", h.create)
	requireAdmin(r).Put("/api/products/{id}", h.update)
	requireAdmin(r).Delete("/api/products/{id}", h.delete)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	params := catalog.ListParams{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
		Page:     page,
		Limit:    limit,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res, err := h.Catalog.List(ctx, params)
	if err != nil {
		log.Printf("list products: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respond(w, http.StatusOK, res, "Products fetched successfully")
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyProduct, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			respond(w, http.StatusOK, json.RawMessage(s), "Product fetched successfully")
			return
		}
	}

	p, err := h.Catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("get product: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(p); err == nil {
			_ = h.Redis.Set(ctx, key, b, redisx.TTLProduct).Err()
		}
	}
	respond(w, http.StatusOK, p, "Product fetched successfully")
}

func (h *ProductsHandler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, redisx.KeyCategories).Result(); err == nil && s != "" {
			respond(w, http.StatusOK, json.RawMessage(s), "Categories fetched successfully")
			return
		}
	}

	cats, err := h.Catalog.Categories(ctx)
	if err != nil {
		log.Printf("list categories: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(cats); err == nil {
			_ = h.Redis.Set(ctx, redisx.KeyCategories, b, redisx.TTLCategories).Err()
		}
	}
	respond(w, http.StatusOK, cats, "Categories fetched successfully")
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if p.Name == "" || p.PriceCents <= 0 {
		respondErr(w, http.StatusBadRequest, "Name and price are required")
		return
	}
	if p.Stock < 0 {
		respondErr(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	created, err := h.Catalog.Create(ctx, p)
	if err != nil {
		log.Printf("create product: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	h.dropCaches(ctx, created.ID)
	respond(w, http.StatusOK, created, "Product created successfully")
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		respondErr(w, http.StatusBadRequest, "Stock cannot be negative")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	updated, err := h.Catalog.Update(ctx, id, patch)
	if errors.Is(err, catalog.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("update product: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	h.dropCaches(ctx, id)
	respond(w, http.StatusOK, updated, "Product updated successfully")
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err = h.Catalog.Delete(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondErr(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("delete product: %v", err)
		respondErr(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	h.dropCaches(ctx, id)
	respond(w, http.StatusOK, nil, "Product deleted successfully")
}

func (h *ProductsHandler) dropCaches(ctx context.Context, id int64) {
	if h.Redis == nil {
		return
	}
	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id), redisx.KeyCategories).Err()
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
