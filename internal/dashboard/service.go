// Package dashboard aggregates the admin overview from the catalog, the
// order ledger, the shop gate and this process's checkout counters.
package dashboard

import (
	"context"

	"fishmart-be/internal/access"
	"fishmart-be/internal/logger"
	"fishmart-be/internal/metrics"
	"fishmart-be/internal/order"
	"fishmart-be/internal/shop"

	"go.uber.org/zap"
)

type Stats struct {
	TotalProducts int                      `json:"totalProducts"`
	TotalOrders   int                      `json:"totalOrders"`
	PendingOrders int                      `json:"pendingOrders"`
	ShopStatus    bool                     `json:"shopStatus"`
	Checkout      metrics.CheckoutSnapshot `json:"checkout"`
}

type ProductCounter interface {
	Count(ctx context.Context) (int, error)
}

type OrderSummarizer interface {
	Summary(ctx context.Context) (order.Summary, error)
}

type ShopReader interface {
	Status(ctx context.Context) (*shop.Status, error)
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	products ProductCounter
	orders   OrderSummarizer
	shop     ShopReader
	counters *metrics.Checkout
}

func NewService(products ProductCounter, orders OrderSummarizer, shop ShopReader, counters *metrics.Checkout) Service {
	if counters == nil {
		counters = &metrics.Checkout{}
	}
	return &service{products: products, orders: orders, shop: shop, counters: counters}
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Stats"),
	)

	if _, err := access.Require(ctx, access.ViewAllOrders); err != nil {
		return nil, err
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, err
	}

	summary, err := s.orders.Summary(ctx)
	if err != nil {
		log.Error("failed to summarize orders", zap.Error(err))
		return nil, err
	}

	st, err := s.shop.Status(ctx)
	if err != nil {
		log.Error("failed to read shop status", zap.Error(err))
		return nil, err
	}

	return &Stats{
		TotalProducts: total,
		TotalOrders:   summary.TotalOrders,
		PendingOrders: summary.PendingOrders,
		ShopStatus:    st.IsOpen,
		Checkout:      s.counters.Snapshot(),
	}, nil
}
