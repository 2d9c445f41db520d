package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbus-labs/accounts/internal/platform/httpx"
)

// DefaultListLimit bounds listings when the caller does not supply a limit.
const DefaultListLimit = 100

// Service handles user account business rules.
type Service struct {
	repo   Repository
	hasher Hasher
}

// NewService builds a Service instance.
func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// CreateUser registers a new account. The email pre-check is advisory; the
// unique index remains the authoritative guard against concurrent creates.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, httpx.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.repo.Create(ctx, User{
		Email:          req.Email,
		HashedPassword: hashed,
		FullName:       req.FullName,
		IsActive:       isActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetUser fetches a single account by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// ListUsers returns a window of accounts in insertion order.
func (s *Service) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, skip, limit)
}

// UpdateUser applies a partial patch: only fields present in the request
// change. A new password is hashed before it reaches the store, and an email
// change is re-checked for uniqueness the same way create is.
func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	changes := make(map[string]any)
	if req.Email != nil {
		if *req.Email != current.Email {
			taken, err := s.repo.GetByEmail(ctx, *req.Email)
			if err != nil && !errors.Is(err, httpx.ErrNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken != nil {
				return nil, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
			}
		}
		changes["email"] = *req.Email
	}
	if req.Password != nil {
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		changes["hashed_password"] = hashed
	}
	if req.FullName != nil {
		changes["full_name"] = *req.FullName
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}

	if len(changes) == 0 {
		return current, nil
	}

	updated, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// DeleteUser removes the account and returns its pre-delete snapshot.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*User, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return deleted, nil
}
