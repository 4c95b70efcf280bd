package product

import (
	"context"
	"database/sql"
	"errors"

	"fishmart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, category *Category) ([]Product, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindAvailableByName(ctx context.Context, name string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	UpdateStock(ctx context.Context, id uuid.UUID, stock int, status Status) error
	ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, fish_name, price, stock_quantity, image_url, category, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.FishName, &p.Price, &p.StockQuantity, &p.ImageURL,
		&p.Category, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, category *Category) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListProducts"),
	)

	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, fish_name, price, stock_quantity, image_url, category, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`,
		p.ID, p.FishName, p.Price, p.StockQuantity, p.ImageURL, p.Category, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Save writes every mutable column of p.
func (r *repository) Save(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET fish_name = $1, price = $2, stock_quantity = $3, image_url = $4,
		    category = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`,
		p.FishName, p.Price, p.StockQuantity, p.ImageURL, p.Category, p.Status, p.ID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) FindAvailableByName(ctx context.Context, name string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE fish_name = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
	`, name, StatusAvailable)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE fish_name = $1
		ORDER BY created_at
		LIMIT 1
	`, name)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) UpdateStock(ctx context.Context, id uuid.UUID, stock int, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, stock, status, id)
	return err
}

// ReserveStockTx decrements stock inside tx only if enough is left,
// flipping the product to Sold Out when it reaches zero. It reports false
// when no available product with that name had enough stock.
func (r *repository) ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1,
		    status = CASE WHEN stock_quantity - $1 <= 0 THEN $4 ELSE status END,
		    updated_at = NOW()
		WHERE id = (
			SELECT id FROM products
			WHERE fish_name = $2 AND status = $3 AND stock_quantity >= $1
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE
		)
	`, qty, name, StatusAvailable, StatusSoldOut)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
