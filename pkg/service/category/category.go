// Package category implements the scoped category store: global
// (ownerless) categories next to per-user ones, with (name, owner)
// uniqueness per scope. A foreign user's category is indistinguishable
// from a nonexistent one; global categories are readable by everyone and
// mutable by no one.
package category

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/repository"
)

// DefaultGlobalCategories is seeded once at startup when the store holds
// no global categories yet.
var DefaultGlobalCategories = []string{
	"Groceries", "Rent", "Transport", "Entertainment", "Health", "Salary", "Other",
}

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create inserts a category owned by userID; duplicates within the user's
// scope conflict.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	log := s.logger.With("context", "Create", "userID", userID)
	c := domain.NewCategory(userID, name)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.Categories().Create(ctx, c)
	})
	if err != nil {
		log.Error("Create failed", "error", err)
		return nil, err
	}
	log.Info("Create successful", "categoryID", c.ID)
	return c, nil
}

// Get returns the category only when it is global or owned by the caller.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Category, error) {
	var c *domain.Category
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Categories().Get(ctx, id)
		if err != nil {
			return err
		}
		if !c.VisibleTo(userID) {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns global categories plus the caller's own, never another
// user's.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		categories, err = uow.Categories().ListVisible(ctx, userID)
		return err
	})
	return categories, err
}

// Update renames one of the caller's own categories. Global categories
// and other users' categories are refused.
func (s *Service) Update(ctx context.Context, id, userID uuid.UUID, name string) (*domain.Category, error) {
	log := s.logger.With("context", "Update", "categoryID", id, "userID", userID)
	var c *domain.Category
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		c, err = uow.Categories().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := mutable(c, userID); err != nil {
			return err
		}
		c.Name = name
		return uow.Categories().Update(ctx, c)
	})
	if err != nil {
		log.Error("Update failed", "error", err)
		return nil, err
	}
	log.Info("Update successful")
	return c, nil
}

// Delete removes one of the caller's own categories.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With("context", "Delete", "categoryID", id, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		c, err := uow.Categories().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := mutable(c, userID); err != nil {
			return err
		}
		return uow.Categories().Delete(ctx, id)
	})
	if err != nil {
		log.Error("Delete failed", "error", err)
		return err
	}
	log.Info("Delete successful")
	return nil
}

// SeedGlobal inserts the default global category set if the store has
// none. Safe to call on every startup.
func (s *Service) SeedGlobal(ctx context.Context) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		n, err := uow.Categories().CountGlobal(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		s.logger.Info("seeding global categories", "count", len(DefaultGlobalCategories))
		for _, name := range DefaultGlobalCategories {
			if err := uow.Categories().Create(ctx, domain.NewGlobalCategory(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutable applies the mutation policy: global categories exist for
// everyone but cannot be changed, while another user's private category
// is indistinguishable from a missing one.
func mutable(c *domain.Category, userID uuid.UUID) error {
	if c.IsGlobal() {
		return domain.ErrGlobalCategoryImmutable
	}
	if *c.UserID != userID {
		return domain.ErrNotFound
	}
	return nil
}
