package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

var ErrNotFound = errors.New("product not found")

const productCols = `id, name, COALESCE(description,''), price_cents, stock,
	COALESCE(category,''), COALESCE(image_url,''), created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

// listFilter builds the WHERE clause shared by the page query and the count.
func listFilter(p ListParams) (string, []any) {
	var conds []string
	var args []any
	if p.Query != "" {
		args = append(args, "%"+p.Query+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if p.Category != "" {
		args = append(args, p.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 9
	}
	if p.Sort != "asc" {
		p.Sort = "desc"
	}
	return p
}

// List runs the page query and the total count concurrently against the pool.
func (r *Repo) List(ctx context.Context, p ListParams) (*ListResult, error) {
	p = p.normalized()
	where, args := listFilter(p)

	res := &ListResult{Page: p.Page, Products: []Product{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q := fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at %s LIMIT $%d OFFSET $%d`,
			productCols, where, p.Sort, len(args)+1, len(args)+2)
		rows, err := r.DB.Query(gctx, q, append(args, p.Limit, (p.Page-1)*p.Limit)...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var pr Product
			if err := scanProduct(rows, &pr); err != nil {
				return err
			}
			res.Products = append(res.Products, pr)
		}
		return rows.Err()
	})

	g.Go(func() error {
		return r.DB.QueryRow(gctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&res.Total)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	res.TotalPages = (res.Total + p.Limit - 1) / p.Limit
	return res, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p Product) (*Product, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, description, price_cents, stock, category, image_url)
		VALUES ($1, NULLIF($2,''), $3, $4, NULLIF($5,''), NULLIF($6,''))
		RETURNING `+productCols,
		p.Name, p.Description, p.PriceCents, p.Stock, p.Category, p.ImageURL).
		Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
			&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, id int64, patch Patch) (*Product, error) {
	sets, args := patchSets(patch)
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`UPDATE products SET %s, updated_at = now() WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productCols)

	var p Product
	err := scanProduct(r.DB.QueryRow(ctx, q, args...), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func patchSets(patch Patch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.PriceCents != nil {
		add("price_cents", *patch.PriceCents)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	return sets, args
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT DISTINCT category FROM products
		WHERE category IS NOT NULL ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
		&p.Category, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
}
