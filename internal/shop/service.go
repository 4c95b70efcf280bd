package shop

import (
	"context"

	"fishmart-be/internal/access"
	"fishmart-be/internal/logger"

	"go.uber.org/zap"
)

// Service reads the gate from the store on every call; the flag is never
// cached in process so that every instance sees the same value.
type Service interface {
	Status(ctx context.Context) (*Status, error)
	SetOpen(ctx context.Context, isOpen bool) (*Status, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	return s.repo.Get(ctx)
}

func (s *service) SetOpen(ctx context.Context, isOpen bool) (*Status, error) {
	if _, err := access.Require(ctx, access.ManageShop); err != nil {
		return nil, err
	}

	st, err := s.repo.Set(ctx, isOpen)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update shop status", zap.Error(err))
		return nil, err
	}

	logger.FromCtx(ctx).Info("shop status changed", zap.Bool("is_open", isOpen))
	return st, nil
}
