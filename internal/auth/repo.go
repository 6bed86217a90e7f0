package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, email, username, role, passwordHash string) (*User, error) {
	if role == "" {
		role = RoleCustomer
	}
	var u User
	u.Email, u.Username, u.Role = email, username, role
	err := r.DB.QueryRow(ctx, `
		INSERT INTO users(email, username, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, email, username, role, passwordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.DB.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash, created_at
		FROM users WHERE email = $1`, email))
}

func (r *Repo) ByID(ctx context.Context, id int64) (*User, error) {
	return r.scanOne(r.DB.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash, created_at
		FROM users WHERE id = $1`, id))
}

func (r *Repo) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
