package transport

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"fishmart-be/internal/access"
	"fishmart-be/internal/order"
	"fishmart-be/internal/product"
	"fishmart-be/internal/shop"
	"fishmart-be/internal/user"

	"github.com/google/uuid"
)

// In-memory stores standing in for Postgres so the router can be driven
// end to end through the real services.

type memProducts struct {
	mu    sync.Mutex
	items []product.Product
}

func (m *memProducts) List(ctx context.Context, category *product.Category) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []product.Product{}
	for _, p := range m.items {
		if category == nil || p.Category == *category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

func (m *memProducts) find(match func(product.Product) bool) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.items {
		if match(p) {
			cp := p
			return &cp, nil
		}
	}
	return nil, product.ErrProductNotFound
}

func (m *memProducts) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return m.find(func(p product.Product) bool { return p.ID == id })
}

func (m *memProducts) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items = append(m.items, *p)
	return nil
}

func (m *memProducts) Save(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == p.ID {
			p.UpdatedAt = time.Now()
			m.items[i] = *p
			return nil
		}
	}
	return product.ErrProductNotFound
}

func (m *memProducts) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return product.ErrProductNotFound
}

func (m *memProducts) FindAvailableByName(ctx context.Context, name string) (*product.Product, error) {
	return m.find(func(p product.Product) bool {
		return p.FishName == name && p.Status == product.StatusAvailable
	})
}

func (m *memProducts) FindByName(ctx context.Context, name string) (*product.Product, error) {
	return m.find(func(p product.Product) bool { return p.FishName == name })
}

func (m *memProducts) UpdateStock(ctx context.Context, id uuid.UUID, stock int, status product.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].StockQuantity = stock
			m.items[i].Status = status
			return nil
		}
	}
	return product.ErrProductNotFound
}

func (m *memProducts) ReserveStockTx(ctx context.Context, tx *sql.Tx, name string, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.items {
		p := &m.items[i]
		if p.FishName != name || p.Status != product.StatusAvailable {
			continue
		}
		if p.StockQuantity < qty {
			return false, nil
		}
		p.StockQuantity -= qty
		if p.StockQuantity <= 0 {
			p.Status = product.StatusSoldOut
		}
		return true, nil
	}
	return false, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]user.User{}}
}

func (m *memUsers) add(name string, role access.Role) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := user.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  name + "@example.com",
		Role:   role,
		Status: user.StatusApproved,
	}
	m.users[u.ID] = u
	return u
}

func (m *memUsers) Create(ctx context.Context, in user.NewUser) (user.User, error) {
	u := m.add(in.Name, in.Role)
	return u, nil
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUsers) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []user.User{}
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && u.Status != *filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) UpdateStatus(ctx context.Context, id uuid.UUID, status user.Status) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	u.Status = status
	m.users[id] = u
	return u, nil
}

func (m *memUsers) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type memOrders struct {
	mu     sync.Mutex
	users  *memUsers
	orders []order.Order
}

func (m *memOrders) Create(ctx context.Context, o *order.Order) error {
	return m.CreateWithTx(ctx, o, nil)
}

func (m *memOrders) CreateWithTx(ctx context.Context, o *order.Order, fn func(tx *sql.Tx) error) error {
	if fn != nil {
		if err := fn(nil); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders = append(m.orders, *o)
	return nil
}

// populate mimics the joins done by the SQL repository.
func (m *memOrders) populate(o order.Order) *order.Order {
	if u, err := m.users.FindByID(context.Background(), o.UserID); err == nil {
		o.Owner = &order.Party{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	if o.AssignedPartnerID != nil {
		if u, err := m.users.FindByID(context.Background(), *o.AssignedPartnerID); err == nil {
			o.Partner = &order.Party{ID: u.ID, Name: u.Name}
		}
	}
	return &o
}

func (m *memOrders) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID == id {
			return m.populate(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (m *memOrders) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*order.Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		o := m.orders[i]
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.PartnerID != nil && (o.AssignedPartnerID == nil || *o.AssignedPartnerID != *filter.PartnerID) {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		out = append(out, m.populate(o))
	}
	return out, nil
}

func (m *memOrders) update(id uuid.UUID, apply func(o *order.Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.orders {
		if m.orders[i].ID == id {
			apply(&m.orders[i])
			m.orders[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return order.ErrOrderNotFound
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	return m.update(id, func(o *order.Order) { o.Status = status })
}

func (m *memOrders) AssignPartner(ctx context.Context, id, partnerID uuid.UUID) error {
	return m.update(id, func(o *order.Order) { o.AssignedPartnerID = &partnerID })
}

func (m *memOrders) Summary(ctx context.Context) (order.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := order.Summary{TotalOrders: len(m.orders)}
	for _, o := range m.orders {
		if o.Status == order.StatusPending {
			s.PendingOrders++
		}
	}
	return s, nil
}

type memShop struct {
	mu     sync.Mutex
	status *shop.Status
}

func (m *memShop) Get(ctx context.Context) (*shop.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == nil {
		m.status = &shop.Status{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	}
	cp := *m.status
	return &cp, nil
}

func (m *memShop) Set(ctx context.Context, isOpen bool) (*shop.Status, error) {
	if _, err := m.Get(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.IsOpen = isOpen
	m.status.UpdatedAt = time.Now()
	cp := *m.status
	return &cp, nil
}
