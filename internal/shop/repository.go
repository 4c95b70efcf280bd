package shop

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type Repository interface {
	// Get returns the gate, creating it closed when no row exists yet.
	Get(ctx context.Context) (*Status, error)
	Set(ctx context.Context, isOpen bool) (*Status, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) find(ctx context.Context) (*Status, error) {
	var s Status
	err := r.db.QueryRowContext(ctx, `
		SELECT id, is_open, created_at, updated_at
		FROM shop_status
		ORDER BY created_at
		LIMIT 1
	`).Scan(&s.ID, &s.IsOpen, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) create(ctx context.Context, isOpen bool) (*Status, error) {
	s := Status{ID: uuid.New(), IsOpen: isOpen}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO shop_status (id, is_open)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`, s.ID, s.IsOpen).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Get(ctx context.Context) (*Status, error) {
	s, err := r.find(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return r.create(ctx, false)
	}
	return s, err
}

func (r *repository) Set(ctx context.Context, isOpen bool) (*Status, error) {
	s, err := r.find(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return r.create(ctx, isOpen)
	}
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `
		UPDATE shop_status
		SET is_open = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`, isOpen, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.IsOpen = isOpen
	return s, nil
}
