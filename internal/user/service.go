package user

import (
	"context"
	"fmt"
	"strings"

	"fishmart-be/internal/access"
	"fishmart-be/internal/auth"
	"fishmart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	// Create provisions an account. It is not exposed over HTTP; the
	// migrate CLI uses it to seed admins and partners.
	Create(ctx context.Context, in NewUser) (User, error)
	FindByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Approve(ctx context.Context, id uuid.UUID) (User, error)
	Reject(ctx context.Context, id uuid.UUID) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, in NewUser) (User, error) {
	log := logger.FromCtx(ctx)

	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Name == "" || in.Password == "" {
		return User{}, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if _, err := access.ParseRole(string(in.Role)); err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Status == "" {
		in.Status = StatusApproved
	}
	if !in.Status.Valid() {
		return User{}, ErrInvalidStatus
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}
	in.Password = hashed

	u, err := s.repo.Create(ctx, in)
	if err != nil {
		return User{}, err
	}

	log.Info("user created",
		zap.String("new_user_id", u.ID.String()),
		zap.String("role", string(u.Role)),
	)
	return u, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]User, error) {
	if _, err := access.Require(ctx, access.ManageUsers); err != nil {
		return nil, err
	}
	if filter.Role != nil {
		if _, err := access.ParseRole(string(*filter.Role)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Approve(ctx context.Context, id uuid.UUID) (User, error) {
	return s.setStatus(ctx, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, id uuid.UUID) (User, error) {
	return s.setStatus(ctx, id, StatusRejected)
}

func (s *service) setStatus(ctx context.Context, id uuid.UUID, status Status) (User, error) {
	if _, err := access.Require(ctx, access.ManageUsers); err != nil {
		return User{}, err
	}

	u, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return User{}, err
	}

	logger.FromCtx(ctx).Info("user status changed",
		zap.String("target_user_id", id.String()),
		zap.String("status", string(status)),
	)
	return u, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := access.Require(ctx, access.ManageUsers); err != nil {
		return err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == access.RoleAdmin {
		return ErrCannotDeleteAdmin
	}

	return s.repo.Delete(ctx, id)
}
