package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fishmart-be/internal/db"
	"fishmart-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	// CreateWithTx stores o and runs fn in the same transaction; an error
	// from fn discards the order.
	CreateWithTx(ctx context.Context, o *Order, fn func(tx *sql.Tx) error) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	AssignPartner(ctx context.Context, id, partnerID uuid.UUID) error
	Summary(ctx context.Context) (Summary, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectOrders = `
	SELECT o.id, o.user_id, o.total_amount, o.status, o.assigned_partner_id,
	       o.created_at, o.updated_at,
	       u.name, u.email, u.phone, u.address,
	       p.name, p.phone
	FROM orders o
	LEFT JOIN users u ON u.id = o.user_id
	LEFT JOIN users p ON p.id = o.assigned_partner_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*Order, error) {
	var o Order
	var partnerID uuid.NullUUID
	var ownerName, ownerEmail, ownerPhone, ownerAddr sql.NullString
	var partnerName, partnerPhone sql.NullString

	err := s.Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &partnerID,
		&o.CreatedAt, &o.UpdatedAt,
		&ownerName, &ownerEmail, &ownerPhone, &ownerAddr,
		&partnerName, &partnerPhone,
	)
	if err != nil {
		return nil, err
	}

	if ownerName.Valid {
		o.Owner = &Party{
			ID:      o.UserID,
			Name:    ownerName.String,
			Email:   ownerEmail.String,
			Phone:   ownerPhone.String,
			Address: ownerAddr.String,
		}
	}
	if partnerID.Valid {
		id := partnerID.UUID
		o.AssignedPartnerID = &id
		if partnerName.Valid {
			o.Partner = &Party{ID: id, Name: partnerName.String, Phone: partnerPhone.String}
		}
	}

	o.Items = []Item{}
	return &o, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, o *Order) error {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.TotalAmount, o.Status).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, fish_name, qty, preparation)
			VALUES ($1, $2, $3, $4, $5)
		`, o.ID, i, it.FishName, it.Qty, it.Preparation)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	return r.CreateWithTx(ctx, o, nil)
}

func (r *repository) CreateWithTx(ctx context.Context, o *Order, fn func(tx *sql.Tx) error) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.String("order_id", o.ID.String()),
	)

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertOrder(ctx, tx, o); err != nil {
			return err
		}
		if fn != nil {
			return fn(tx)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrInsufficientStock) {
		log.Error("order transaction failed", zap.Error(err))
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, selectOrders+` WHERE o.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
	)

	var (
		where []string
		args  []any
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if filter.PartnerID != nil {
		args = append(args, *filter.PartnerID)
		where = append(where, fmt.Sprintf("o.assigned_partner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("o.status = $%d", len(args)))
	}

	query := selectOrders
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY o.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := []*Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[uuid.UUID]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID.String())
		byID[o.ID] = o
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, fish_name, qty, preparation
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			it      Item
		)
		if err := rows.Scan(&orderID, &it.FishName, &it.Qty, &it.Preparation); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *repository) AssignPartner(ctx context.Context, id, partnerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET assigned_partner_id = $1, updated_at = NOW() WHERE id = $2
	`, partnerID, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *repository) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM orders
	`, StatusPending).Scan(&s.TotalOrders, &s.PendingOrders)
	return s, err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
