package dashboard

import (
	"context"
	"errors"
	"testing"

	"fishmart-be/internal/access"
	"fishmart-be/internal/metrics"
	"fishmart-be/internal/order"
	"fishmart-be/internal/shop"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSources struct {
	mock.Mock
}

func (m *mockSources) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockSources) Summary(ctx context.Context) (order.Summary, error) {
	args := m.Called(ctx)
	return args.Get(0).(order.Summary), args.Error(1)
}

func (m *mockSources) Status(ctx context.Context) (*shop.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shop.Status), args.Error(1)
}

func adminCtx() context.Context {
	return access.WithActor(context.Background(), access.Actor{ID: uuid.New(), Role: access.RoleAdmin})
}

func TestService_Stats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		src := new(mockSources)
		counters := &metrics.Checkout{}
		for i := 0; i < 3; i++ {
			counters.Placed.Inc()
		}
		counters.Rejected.Inc()

		src.On("Count", mock.Anything).Return(12, nil)
		src.On("Summary", mock.Anything).Return(order.Summary{TotalOrders: 9, PendingOrders: 4}, nil)
		src.On("Status", mock.Anything).Return(&shop.Status{IsOpen: true}, nil)

		stats, err := NewService(src, src, src, counters).Stats(adminCtx())
		require.NoError(t, err)
		assert.Equal(t, &Stats{
			TotalProducts: 12,
			TotalOrders:   9,
			PendingOrders: 4,
			ShopStatus:    true,
			Checkout:      metrics.CheckoutSnapshot{Placed: 3, Rejected: 1},
		}, stats)
	})

	t.Run("Admin only", func(t *testing.T) {
		src := new(mockSources)
		ctx := access.WithActor(context.Background(), access.Actor{ID: uuid.New(), Role: access.RolePartner})

		_, err := NewService(src, src, src, nil).Stats(ctx)
		assert.ErrorIs(t, err, access.ErrAccessDenied)
		src.AssertNotCalled(t, "Count", mock.Anything)
	})

	t.Run("Source error", func(t *testing.T) {
		src := new(mockSources)
		src.On("Count", mock.Anything).Return(0, nil)
		src.On("Summary", mock.Anything).Return(order.Summary{}, errors.New("db error"))

		_, err := NewService(src, src, src, nil).Stats(adminCtx())
		assert.Error(t, err)
		src.AssertNotCalled(t, "Status", mock.Anything)
	})
}
