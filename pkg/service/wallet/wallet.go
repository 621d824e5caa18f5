// Package wallet implements wallet lifecycle, ledger reads and the
// sharing model. Every operation passes the access gate before touching
// anything: owner-or-member for reads and ledger writes, owner-only for
// member management, updates and deletion.
package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/repository"
)

// Balance is the ledger read model for one wallet.
type Balance struct {
	WalletID       uuid.UUID        `json:"wallet_id"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	ManualBalance  *decimal.Decimal `json:"manual_balance,omitempty"`
	BalanceResetAt *time.Time       `json:"balance_reset_at,omitempty"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
}

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create makes userID the owner of a new wallet. The owner is not stored
// as a member row; access is implicit.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, name string, walletType domain.WalletType, currency string, initialBalance decimal.Decimal) (*domain.Wallet, error) {
	log := s.logger.With("context", "Create", "userID", userID)
	if !walletType.Valid() {
		walletType = domain.WalletPersonal
	}
	w := domain.NewWallet(userID, name, walletType, currency, initialBalance)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return uow.Wallets().Create(ctx, w)
	})
	if err != nil {
		log.Error("Create failed", "error", err)
		return nil, err
	}
	log.Info("Create successful", "walletID", w.ID)
	return w, nil
}

// List returns every wallet the caller owns or is a member of.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		wallets, err = uow.Wallets().ListAccessible(ctx, userID)
		return err
	})
	return wallets, err
}

// Get returns the wallet if the caller may see it. Existence is not
// hidden: a wallet the caller cannot access yields ErrWalletAccessDenied,
// not ErrNotFound.
func (s *Service) Get(ctx context.Context, walletID, userID uuid.UUID) (*domain.Wallet, error) {
	var w *domain.Wallet
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		w, err = s.accessibleWallet(ctx, uow, walletID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// GetBalance computes the current balance. Pure read: recomputed on every
// call, never cached.
func (s *Service) GetBalance(ctx context.Context, walletID, userID uuid.UUID) (*Balance, error) {
	w, err := s.Get(ctx, walletID, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{
		WalletID:       w.ID,
		InitialBalance: w.InitialBalance,
		ManualBalance:  w.ManualBalance,
		BalanceResetAt: w.BalanceResetAt,
		CurrentBalance: w.ComputeBalance(),
	}, nil
}

// SetManualBalance rebases the wallet's ledger checkpoint. Any member may
// reconcile a shared wallet, not just the owner. Not idempotent: every
// call moves the checkpoint forward.
func (s *Service) SetManualBalance(ctx context.Context, walletID, userID uuid.UUID, balance decimal.Decimal) error {
	log := s.logger.With("context", "SetManualBalance", "walletID", walletID, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := s.accessibleWallet(ctx, uow, walletID, userID)
		if err != nil {
			return err
		}
		w.SetManualBalance(balance)
		return uow.Wallets().Update(ctx, w)
	})
	if err != nil {
		log.Error("SetManualBalance failed", "error", err)
		return err
	}
	log.Info("SetManualBalance successful")
	return nil
}

// Update renames or retypes a wallet. Owner only.
func (s *Service) Update(ctx context.Context, walletID, userID uuid.UUID, name string, walletType domain.WalletType, currency string) error {
	log := s.logger.With("context", "Update", "walletID", walletID, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !w.IsOwner(userID) {
			return domain.ErrNotWalletOwner
		}
		if name != "" {
			w.Name = name
		}
		if walletType != "" {
			if !walletType.Valid() {
				return domain.ErrValidation
			}
			w.Type = walletType
		}
		if currency != "" {
			w.Currency = currency
		}
		w.UpdatedAt = time.Now().UTC()
		return uow.Wallets().Update(ctx, w)
	})
	if err != nil {
		log.Error("Update failed", "error", err)
		return err
	}
	log.Info("Update successful")
	return nil
}

// Delete removes a wallet and its member and transaction rows. Owner only,
// and refused while another user points at it as their main wallet. The
// owner's own main-wallet pointer is cleared instead, so a lone account is
// never stuck owning an undeletable wallet.
func (s *Service) Delete(ctx context.Context, walletID, userID uuid.UUID) error {
	log := s.logger.With("context", "Delete", "walletID", walletID, "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !w.IsOwner(userID) {
			return domain.ErrNotWalletOwner
		}
		isMain, err := uow.Wallets().IsMainWalletForOtherUser(ctx, walletID, userID)
		if err != nil {
			return err
		}
		if isMain {
			return domain.ErrWalletIsMain
		}
		if err := uow.Wallets().ClearMainWallet(ctx, walletID); err != nil {
			return err
		}
		return uow.Wallets().Delete(ctx, walletID)
	})
	if err != nil {
		log.Error("Delete failed", "error", err)
		return err
	}
	log.Info("Delete successful")
	return nil
}

// AddMember grants access to another user. Only the owner may share;
// adding the owner or an existing member conflicts; an unknown email is
// NotFound.
func (s *Service) AddMember(ctx context.Context, walletID, requesterID uuid.UUID, targetUserID *uuid.UUID, targetEmail string) (*domain.WalletMember, error) {
	log := s.logger.With("context", "AddMember", "walletID", walletID, "requesterID", requesterID)
	var member *domain.WalletMember
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !w.IsOwner(requesterID) {
			return domain.ErrNotWalletOwner
		}

		target := uuid.Nil
		if targetUserID != nil {
			target = *targetUserID
			if _, err := uow.Users().Get(ctx, target); err != nil {
				return err
			}
		} else {
			u, err := uow.Users().GetByEmail(ctx, targetEmail)
			if err != nil {
				return err
			}
			target = u.ID
		}

		if w.IsOwner(target) || w.HasAccess(target) {
			return domain.ErrAlreadyMember
		}
		member = &domain.WalletMember{WalletID: walletID, UserID: target}
		return uow.Wallets().AddMember(ctx, member)
	})
	if err != nil {
		log.Error("AddMember failed", "error", err)
		return nil, err
	}
	log.Info("AddMember successful", "memberID", member.UserID)
	return member, nil
}

// RemoveMember revokes a member's access. Owner only; the owner is not a
// member row and therefore cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, walletID, requesterID, targetUserID uuid.UUID) error {
	log := s.logger.With("context", "RemoveMember", "walletID", walletID, "requesterID", requesterID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		w, err := uow.Wallets().Get(ctx, walletID)
		if err != nil {
			return err
		}
		if !w.IsOwner(requesterID) {
			return domain.ErrNotWalletOwner
		}
		return uow.Wallets().RemoveMember(ctx, walletID, targetUserID)
	})
	if err != nil {
		log.Error("RemoveMember failed", "error", err)
		return err
	}
	log.Info("RemoveMember successful", "memberID", targetUserID)
	return nil
}

// ListMembers returns the wallet's member rows (the owner is implicit and
// not listed).
func (s *Service) ListMembers(ctx context.Context, walletID, userID uuid.UUID) ([]domain.WalletMember, error) {
	w, err := s.Get(ctx, walletID, userID)
	if err != nil {
		return nil, err
	}
	return w.Members, nil
}

// SetMainWallet points the user's MainWalletID at a wallet they can
// access; ownership is not required.
func (s *Service) SetMainWallet(ctx context.Context, userID, walletID uuid.UUID) error {
	log := s.logger.With("context", "SetMainWallet", "userID", userID, "walletID", walletID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := s.accessibleWallet(ctx, uow, walletID, userID); err != nil {
			return err
		}
		u, err := uow.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		u.MainWalletID = &walletID
		return uow.Users().Update(ctx, u)
	})
	if err != nil {
		log.Error("SetMainWallet failed", "error", err)
		return err
	}
	log.Info("SetMainWallet successful")
	return nil
}

// accessibleWallet loads a wallet and applies the access gate.
func (s *Service) accessibleWallet(ctx context.Context, uow repository.UnitOfWork, walletID, userID uuid.UUID) (*domain.Wallet, error) {
	w, err := uow.Wallets().Get(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if !w.HasAccess(userID) {
		return nil, domain.ErrWalletAccessDenied
	}
	return w, nil
}
