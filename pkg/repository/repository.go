// Package repository defines the persistence contracts the services depend
// on. Implementations live in infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mlisik/walletd/pkg/domain"
)

// UnitOfWork provides repository access bound to a single database session
// and a transaction boundary. Do runs fn atomically: every repository
// obtained from the UnitOfWork passed to fn shares the same transaction,
// and any error rolls the whole unit back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	Users() UserRepository
	Wallets() WalletRepository
	Categories() CategoryRepository
	Transactions() TransactionRepository
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// GetByEmail looks up by canonical (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type WalletRepository interface {
	Create(ctx context.Context, w *domain.Wallet) error
	// Get returns the wallet with members and transactions loaded, or
	// domain.ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// ListAccessible returns every wallet the user owns or is a member of,
	// with members and transactions loaded.
	ListAccessible(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error)
	Update(ctx context.Context, w *domain.Wallet) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, m *domain.WalletMember) error
	RemoveMember(ctx context.Context, walletID, userID uuid.UUID) error

	// CountOwnedBy reports how many wallets the user owns; used to guard
	// user deletion.
	CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error)
	// IsMainWalletForOtherUser reports whether a user other than userID has
	// their MainWalletID pointing at the wallet; such wallets cannot be
	// deleted. The owner's own pointer does not block deletion.
	IsMainWalletForOtherUser(ctx context.Context, walletID, userID uuid.UUID) (bool, error)
	// ClearMainWallet nulls every MainWalletID referencing the wallet.
	ClearMainWallet(ctx context.Context, walletID uuid.UUID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	// ListVisible returns the union of global categories and the user's own.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountGlobal(ctx context.Context) (int64, error)
}

// TransactionFilter narrows transaction listings. All listings are
// caller-scoped by UserID: transactions are never visible to anyone but
// their creator.
type TransactionFilter struct {
	// Sign filters by entry kind: >0 income only, <0 expenses only,
	// 0 no filter.
	Sign int
	// WalletID, when non-nil, restricts to one wallet.
	WalletID *uuid.UUID
	// From/To bound CreatedAt (inclusive from, inclusive to), zero means
	// unbounded.
	From time.Time
	To   time.Time
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	// GetForUser returns the transaction only if it was created by userID;
	// a foreign transaction is domain.ErrNotFound.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error)
	ListForUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}
