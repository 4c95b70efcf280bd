package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fishmart-be/internal/access"
	"fishmart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, category *Category) ([]Product, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, input NewProduct) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProduct) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindAvailableByName(ctx context.Context, name string) (*Product, error)
	DecrementStock(ctx context.Context, name string, qty int) error
	ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProduct, fmt.Sprintf(format, args...))
}

func (s *service) List(ctx context.Context, category *Category) ([]Product, error) {
	if category != nil && !category.Valid() {
		return nil, invalid("unknown category %q", *category)
	}
	return s.repo.List(ctx, category)
}

func (s *service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, input NewProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if _, err := access.Require(ctx, access.ManageCatalog); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.FishName)
	if name == "" || input.Price == nil || input.StockQuantity == nil || input.Category == "" {
		return nil, invalid("please provide fishName, price, stockQuantity, and category")
	}
	if input.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	if *input.StockQuantity < 0 {
		return nil, invalid("stockQuantity must not be negative")
	}
	if !input.Category.Valid() {
		return nil, invalid("unknown category %q", input.Category)
	}

	status := input.Status
	if status == "" {
		status = StatusAvailable
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}

	p := &Product{
		FishName:      name,
		Price:         *input.Price,
		StockQuantity: int(*input.StockQuantity),
		ImageURL:      input.ImageURL,
		Category:      input.Category,
		Status:        status,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.String("fish_name", p.FishName),
	)
	return p, nil
}

// Update applies only the fields present in input.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProduct) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProduct"),
		zap.String("product_id", id.String()),
	)

	if _, err := access.Require(ctx, access.ManageCatalog); err != nil {
		return nil, err
	}
	if input.Empty() {
		return nil, invalid("nothing to update")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FishName.Set {
		name := strings.TrimSpace(input.FishName.Value)
		if name == "" {
			return nil, invalid("fishName must not be empty")
		}
		p.FishName = name
	}
	if input.Price.Set {
		if input.Price.Value.IsNegative() {
			return nil, invalid("price must not be negative")
		}
		p.Price = input.Price.Value
	}
	if input.StockQuantity.Set {
		if input.StockQuantity.Value < 0 {
			return nil, invalid("stockQuantity must not be negative")
		}
		p.StockQuantity = int(input.StockQuantity.Value)
	}
	if input.ImageURL.Set {
		p.ImageURL = input.ImageURL.Value
	}
	if input.Category.Set {
		if !input.Category.Value.Valid() {
			return nil, invalid("unknown category %q", input.Category.Value)
		}
		p.Category = input.Category.Value
	}
	if input.Status.Set {
		if !input.Status.Value.Valid() {
			return nil, invalid("unknown status %q", input.Status.Value)
		}
		p.Status = input.Status.Value
	}

	if err := s.repo.Save(ctx, p); err != nil {
		log.Error("failed to save product", zap.Error(err))
		return nil, err
	}

	log.Info("product updated")
	return p, nil
}

// Delete does not look for orders referencing the product; order lines
// keep their own copy of the name.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := access.Require(ctx, access.ManageCatalog); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *service) FindAvailableByName(ctx context.Context, name string) (*Product, error) {
	return s.repo.FindAvailableByName(ctx, name)
}

// DecrementStock re-reads the product by name alone and subtracts qty,
// marking it Sold Out at zero or below. A product that vanished since
// validation is skipped.
func (s *service) DecrementStock(ctx context.Context, name string, qty int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DecrementStock"),
		zap.String("fish_name", name),
		zap.Int("qty", qty),
	)

	p, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, ErrProductNotFound) {
		log.Warn("product disappeared before stock decrement")
		return nil
	}
	if err != nil {
		return err
	}

	stock := p.StockQuantity - qty
	status := p.Status
	if stock <= 0 {
		status = StatusSoldOut
	}

	if err := s.repo.UpdateStock(ctx, p.ID, stock, status); err != nil {
		log.Error("failed to update stock", zap.Error(err))
		return err
	}

	log.Debug("stock decremented",
		zap.Int("stock", stock),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *service) ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error) {
	return s.repo.ReserveStockTx(ctx, tx, name, qty)
}
