package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"fishmart-be/internal/access"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/metrics"
	"fishmart-be/internal/product"
	"fishmart-be/internal/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Catalog is what the workflow needs from the product store.
type Catalog interface {
	FindAvailableByName(ctx context.Context, name string) (*product.Product, error)
	DecrementStock(ctx context.Context, name string, qty int) error
	ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error)
}

// Users resolves partner candidates.
type Users interface {
	FindByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// CheckoutMode selects how order creation and stock decrement relate.
type CheckoutMode int

const (
	// CheckoutSequential validates, stores the order, then decrements
	// stock line by line with no rollback. Concurrent checkouts may oversell.
	CheckoutSequential CheckoutMode = iota
	// CheckoutAtomic stores the order and reserves stock in one transaction.
	CheckoutAtomic
)

type Service interface {
	PlaceOrder(ctx context.Context, lines []LineRequest) (*Order, error)
	ListMine(ctx context.Context) ([]*Order, error)
	ListAll(ctx context.Context, status *Status) ([]*Order, error)
	ListAssigned(ctx context.Context) ([]*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error)
	AssignPartner(ctx context.Context, id, partnerID uuid.UUID) (*Order, error)
	PackingList(ctx context.Context, status *Status) (*PackingList, error)
	Summary(ctx context.Context) (Summary, error)
}

type service struct {
	repo     Repository
	catalog  Catalog
	users    Users
	mode     CheckoutMode
	counters *metrics.Checkout
}

func NewService(repo Repository, catalog Catalog, users Users, mode CheckoutMode, counters *metrics.Checkout) Service {
	if counters == nil {
		counters = &metrics.Checkout{}
	}
	return &service{
		repo:     repo,
		catalog:  catalog,
		users:    users,
		mode:     mode,
		counters: counters,
	}
}

// PlaceOrder turns a cart into a Pending order. The shop gate is not
// consulted here; clients are expected to check it before submitting.
func (s *service) PlaceOrder(ctx context.Context, lines []LineRequest) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Int("item_count", len(lines)),
	)
	timer := metrics.StartTimer()

	actor, err := access.Require(ctx, access.PlaceOrder)
	if err != nil {
		return nil, err
	}

	items, total, err := s.validate(ctx, lines)
	if err != nil {
		s.counters.Rejected.Inc()
		log.Info("checkout rejected", zap.Error(err))
		return nil, err
	}

	o := &Order{
		ID:          uuid.New(),
		UserID:      actor.ID,
		Items:       items,
		TotalAmount: total,
		Status:      StatusPending,
	}
	log = log.With(zap.String("order_id", o.ID.String()))

	switch s.mode {
	case CheckoutAtomic:
		err = s.repo.CreateWithTx(ctx, o, func(tx *sql.Tx) error {
			for _, it := range items {
				ok, err := s.catalog.ReserveStockTx(ctx, tx, it.FishName, it.Qty)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w for %s", ErrInsufficientStock, it.FishName)
				}
			}
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				s.counters.Rejected.Inc()
				log.Info("checkout lost stock race", zap.Error(err))
			} else {
				log.Error("failed to create order", zap.Error(err))
			}
			return nil, err
		}

	default:
		if err := s.repo.Create(ctx, o); err != nil {
			log.Error("failed to create order", zap.Error(err))
			return nil, err
		}

		// Second pass: the order is already visible. A failure here leaves
		// earlier decrements applied and the order in place.
		for _, it := range items {
			if err := s.catalog.DecrementStock(ctx, it.FishName, it.Qty); err != nil {
				s.counters.StockAdjustFails.Inc()
				log.Error("stock decrement failed after order creation",
					zap.String("fish_name", it.FishName),
					zap.Error(err),
				)
				return nil, fmt.Errorf("%w: %w", ErrStockAdjustment, err)
			}
		}
	}

	s.counters.Placed.Inc()
	log.Info("order placed",
		zap.String("total_amount", total.String()),
		zap.Duration("duration", timer.Duration()),
	)

	if full, err := s.repo.FindByID(ctx, o.ID); err == nil {
		return full, nil
	}
	return o, nil
}

// validate checks each line independently against the catalog and sums
// price × qty using the price read here.
func (s *service) validate(ctx context.Context, lines []LineRequest) ([]Item, decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, decimal.Zero, ErrEmptyOrder
	}

	total := decimal.Zero
	items := make([]Item, 0, len(lines))

	for _, l := range lines {
		name := strings.TrimSpace(l.FishName)
		if name == "" || l.Qty < 1 || !l.Preparation.Valid() {
			return nil, decimal.Zero, ErrInvalidLine
		}

		p, err := s.catalog.FindAvailableByName(ctx, name)
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, decimal.Zero, fmt.Errorf("%w: %q", ErrProductUnavailable, name)
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		if p.StockQuantity < l.Qty {
			return nil, decimal.Zero, fmt.Errorf("%w for %s", ErrInsufficientStock, name)
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
		items = append(items, Item{FishName: name, Qty: l.Qty, Preparation: l.Preparation})
	}

	return items, total, nil
}

func (s *service) ListMine(ctx context.Context) ([]*Order, error) {
	actor, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ListFilter{UserID: &actor.ID})
}

func (s *service) ListAll(ctx context.Context, status *Status) ([]*Order, error) {
	if _, err := access.Require(ctx, access.ViewAllOrders); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ListFilter{Status: status})
}

func (s *service) ListAssigned(ctx context.Context) ([]*Order, error) {
	actor, err := access.Require(ctx, access.ViewAssignedOrders)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ListFilter{PartnerID: &actor.ID})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	actor, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanViewOrder(actor, o.UserID, o.AssignedPartnerID) {
		return nil, access.ErrAccessDenied
	}
	return o, nil
}

// UpdateStatus sets any of the four statuses; regressions are allowed.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id.String()),
	)

	actor, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !access.CanUpdateOrderStatus(actor, o.AssignedPartnerID) {
		log.Warn("status update denied", zap.String("role", string(actor.Role)))
		return nil, access.ErrAccessDenied
	}

	if err := s.repo.UpdateStatus(ctx, id, st); err != nil {
		log.Error("failed to update status", zap.Error(err))
		return nil, err
	}

	log.Info("order status updated",
		zap.String("from", string(o.Status)),
		zap.String("to", string(st)),
	)
	return s.repo.FindByID(ctx, id)
}

// AssignPartner overwrites any previous assignment.
func (s *service) AssignPartner(ctx context.Context, id, partnerID uuid.UUID) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AssignPartner"),
		zap.String("order_id", id.String()),
	)

	if _, err := access.Require(ctx, access.AssignPartner); err != nil {
		return nil, err
	}
	if partnerID == uuid.Nil {
		return nil, ErrMissingPartner
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidate, err := s.users.FindByID(ctx, partnerID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidPartner
	}
	if err != nil {
		return nil, err
	}
	if candidate.Role != access.RolePartner {
		return nil, ErrInvalidPartner
	}

	if err := s.repo.AssignPartner(ctx, id, partnerID); err != nil {
		log.Error("failed to assign partner", zap.Error(err))
		return nil, err
	}

	fields := []zap.Field{zap.String("partner_id", partnerID.String())}
	if o.AssignedPartnerID != nil && *o.AssignedPartnerID != partnerID {
		fields = append(fields, zap.String("previous_partner_id", o.AssignedPartnerID.String()))
	}
	log.Info("partner assigned", fields...)

	return s.repo.FindByID(ctx, id)
}

func (s *service) PackingList(ctx context.Context, status *Status) (*PackingList, error) {
	orders, err := s.ListAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return BuildPackingList(orders), nil
}

// BuildPackingList groups every line of orders by preparation and fish.
func BuildPackingList(orders []*Order) *PackingList {
	groups := map[Preparation]map[string]*PackingEntry{
		PreparationWhole:   {},
		PreparationCleaned: {},
	}

	for _, o := range orders {
		customer := ""
		if o.Owner != nil {
			customer = o.Owner.Name
		}
		for _, it := range o.Items {
			byFish, ok := groups[it.Preparation]
			if !ok {
				continue
			}
			e, ok := byFish[it.FishName]
			if !ok {
				e = &PackingEntry{FishName: it.FishName, Orders: []PackingRef{}}
				byFish[it.FishName] = e
			}
			e.TotalQty += it.Qty
			e.Orders = append(e.Orders, PackingRef{OrderID: o.ID, Qty: it.Qty, Customer: customer})
		}
	}

	return &PackingList{
		Whole:   flatten(groups[PreparationWhole]),
		Cleaned: flatten(groups[PreparationCleaned]),
	}
}

func flatten(m map[string]*PackingEntry) []PackingEntry {
	out := make([]PackingEntry, 0, len(m))
	for _, e := range m {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FishName < out[j].FishName })
	return out
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	if _, err := access.Require(ctx, access.ViewAllOrders); err != nil {
		return Summary{}, err
	}
	return s.repo.Summary(ctx)
}
