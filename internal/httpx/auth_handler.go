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
)

type AuthHandler struct {
	Users      *auth.Repo
	JWTSecret  []byte
	TokenTTL   time.Duration
	BcryptCost int
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/api/auth/signup", h.signup)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)
	r.With(auth.RequireUser(h.JWTSecret)).Get("/api/auth/me", h.me)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "Email and password required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}
	user, err := h.Users.Create(ctx, req.Email, req.Username, req.Role, hash)
	if errors.Is(err, auth.ErrEmailTaken) {
		respondErr(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		log.Printf("create user: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.setTokenCookie(w, user); err != nil {
		log.Printf("sign token: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user}, "Signup successful")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "Email and password required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.ByEmail(ctx, req.Email)
	if errors.Is(err, auth.ErrUserNotFound) {
		respondErr(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Printf("lookup user: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondErr(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.setTokenCookie(w, user); err != nil {
		log.Printf("sign token: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"user": user}, "Login successful")
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
	})
	respond(w, http.StatusOK, nil, "Logged out successfully")
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	user, err := h.Users.ByID(ctx, id.UserID)
	if errors.Is(err, auth.ErrUserNotFound) {
		respondErr(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("lookup user: %v", err)
		respondErr(w, http.StatusInternalServerError, "Server error")
		return
	}
	respond(w, http.StatusOK, user, "User info retrieved")
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, user *auth.User) error {
	tok, err := auth.SignToken(h.JWTSecret, auth.Identity{UserID: user.ID, Role: user.Role}, h.TokenTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.TokenTTL.Seconds()),
	})
	return nil
}
