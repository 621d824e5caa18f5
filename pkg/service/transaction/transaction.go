// Package transaction implements the signed transaction log. The sign of
// the stored amount is the entry's type: income paths normalize to
// positive, expense paths to negative, and update paths are scoped by sign
// so an income id addressed through the expense path reads as not found.
//
// All list and read operations are caller-private: sharing a wallet lets
// members add entries and see the resulting balance, but each member's own
// entries stay out of the others' listings.
package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/repository"
)

// CreateInput carries a new entry. Amount may arrive with either sign;
// the operation decides what gets stored. OccurredAt backdates the entry
// (imports); zero means now.
type CreateInput struct {
	WalletID    uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
	OccurredAt  time.Time
}

// UpdateInput mirrors CreateInput for sign-scoped updates.
type UpdateInput struct {
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
	OccurredAt  time.Time
}

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// AddIncome records a positive entry in the wallet. The caller must have
// wallet access; the supplied amount's sign is ignored.
func (s *Service) AddIncome(ctx context.Context, userID uuid.UUID, in CreateInput) (*domain.Transaction, error) {
	return s.add(ctx, userID, in, domain.NewIncome)
}

// AddExpense records a negative entry; otherwise identical to AddIncome.
func (s *Service) AddExpense(ctx context.Context, userID uuid.UUID, in CreateInput) (*domain.Transaction, error) {
	return s.add(ctx, userID, in, domain.NewExpense)
}

func (s *Service) add(
	ctx context.Context,
	userID uuid.UUID,
	in CreateInput,
	construct func(walletID, userID uuid.UUID, categoryID *uuid.UUID, amount decimal.Decimal, description string, occurredAt time.Time) (*domain.Transaction, error),
) (*domain.Transaction, error) {
	log := s.logger.With("context", "Add", "userID", userID, "walletID", in.WalletID)

	var t *domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, in.WalletID)
		if err != nil {
			return err
		}
		if !w.HasAccess(userID) {
			return domain.ErrWalletAccessDenied
		}
		if err := s.checkCategory(ctx, uow, in.CategoryID, userID); err != nil {
			return err
		}
		t, err = construct(in.WalletID, userID, in.CategoryID, in.Amount, in.Description, in.OccurredAt)
		if err != nil {
			return err
		}
		return uow.Transactions().Create(ctx, t)
	})
	if err != nil {
		log.Error("Add failed", "error", err)
		return nil, err
	}
	log.Info("Add successful", "transactionID", t.ID, "amount", t.Amount)
	return t, nil
}

// UpdateIncome rewrites an entry that is currently stored as income. An id
// that exists but holds an expense (or belongs to someone else) is not
// found; the sign discriminator never produces a type error.
func (s *Service) UpdateIncome(ctx context.Context, id, userID uuid.UUID, in UpdateInput) error {
	return s.update(ctx, id, userID, in, true)
}

// UpdateExpense is the negative-sign counterpart of UpdateIncome.
func (s *Service) UpdateExpense(ctx context.Context, id, userID uuid.UUID, in UpdateInput) error {
	return s.update(ctx, id, userID, in, false)
}

func (s *Service) update(ctx context.Context, id, userID uuid.UUID, in UpdateInput, income bool) error {
	log := s.logger.With("context", "Update", "transactionID", id, "userID", userID)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		t, err := uow.Transactions().GetForUser(ctx, id, userID)
		if err != nil {
			return err
		}
		if income != t.IsIncome() {
			return domain.ErrNotFound
		}
		if err := s.checkCategory(ctx, uow, in.CategoryID, userID); err != nil {
			return err
		}
		if in.Amount.IsZero() {
			return domain.ErrZeroAmount
		}
		if income {
			t.Amount = domain.NormalizeIncome(in.Amount)
		} else {
			t.Amount = domain.NormalizeExpense(in.Amount)
		}
		t.Description = in.Description
		t.CategoryID = in.CategoryID
		if !in.OccurredAt.IsZero() {
			t.CreatedAt = in.OccurredAt
		}
		t.UpdatedAt = time.Now().UTC()
		return uow.Transactions().Update(ctx, t)
	})
	if err != nil {
		log.Error("Update failed", "error", err)
		return err
	}
	log.Info("Update successful")
	return nil
}

// Delete removes an entry permanently. Only the creator can delete;
// foreign ids are not found.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := s.logger.With("context", "Delete", "transactionID", id, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Transactions().GetForUser(ctx, id, userID); err != nil {
			return err
		}
		return uow.Transactions().Delete(ctx, id)
	})
	if err != nil {
		log.Error("Delete failed", "error", err)
		return err
	}
	log.Info("Delete successful")
	return nil
}

// Get returns one of the caller's own entries.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error) {
	var t *domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		t, err = uow.Transactions().GetForUser(ctx, id, userID)
		return err
	})
	return t, err
}

// List returns the caller's entries; sign 0 lists all, >0 income, <0
// expenses.
func (s *Service) List(ctx context.Context, userID uuid.UUID, sign int) ([]*domain.Transaction, error) {
	var ts []*domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		ts, err = uow.Transactions().ListForUser(ctx, userID, repository.TransactionFilter{Sign: sign})
		return err
	})
	return ts, err
}

// ListByWallet returns the caller's own entries in one wallet. The wallet
// gate still applies: the caller must have access even though they only
// ever see their own rows.
func (s *Service) ListByWallet(ctx context.Context, walletID, userID uuid.UUID) ([]*domain.Transaction, error) {
	var ts []*domain.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !w.HasAccess(userID) {
			return domain.ErrWalletAccessDenied
		}
		ts, err = uow.Transactions().ListForUser(ctx, userID, repository.TransactionFilter{WalletID: &walletID})
		return err
	})
	return ts, err
}

func (s *Service) checkCategory(ctx context.Context, uow repository.UnitOfWork, categoryID *uuid.UUID, userID uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	c, err := uow.Categories().Get(ctx, *categoryID)
	if err != nil {
		return err
	}
	if !c.VisibleTo(userID) {
		return domain.ErrNotFound
	}
	return nil
}
