package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletType classifies a wallet for display purposes only; it carries no
// behavior.
type WalletType string

const (
	WalletPersonal WalletType = "personal"
	WalletSavings  WalletType = "savings"
	WalletCredit   WalletType = "credit"
	WalletTravel   WalletType = "travel"
)

// Valid reports whether t is one of the known wallet types.
func (t WalletType) Valid() bool {
	switch t {
	case WalletPersonal, WalletSavings, WalletCredit, WalletTravel:
		return true
	}
	return false
}

// Wallet is the ledger aggregate. Its balance is never stored: it is
// reconstructed from InitialBalance (or the ManualBalance checkpoint) plus
// the transactions recorded after the checkpoint.
//
// Invariants:
//   - Exactly one owner (CreatedByUserID); the owner is never materialized
//     as a member row but has access implicitly.
//   - All monetary fields use decimal arithmetic with two-digit scale.
type Wallet struct {
	ID             uuid.UUID
	Name           string
	Type           WalletType
	Currency       string
	InitialBalance decimal.Decimal
	// ManualBalance, when set, replaces InitialBalance as the base of the
	// balance computation. BalanceResetAt marks the checkpoint: only
	// transactions dated at or after it count toward the balance.
	ManualBalance   *decimal.Decimal
	BalanceResetAt  *time.Time
	CreatedByUserID uuid.UUID
	Members         []WalletMember
	Transactions    []Transaction
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WalletMember grants a non-owner read/write access to a wallet. There is
// no role distinction beyond membership.
type WalletMember struct {
	WalletID uuid.UUID
	UserID   uuid.UUID
}

// IsOwner reports whether userID created the wallet. Owner-only operations
// (adding members, deletion, updates) must use this, not HasAccess, so that
// membership never grants ownership rights.
func (w *Wallet) IsOwner(userID uuid.UUID) bool {
	return w.CreatedByUserID == userID
}

// HasAccess is the single access-control predicate: the owner and every
// member may read the wallet and add transactions to it.
func (w *Wallet) HasAccess(userID uuid.UUID) bool {
	if w.IsOwner(userID) {
		return true
	}
	for _, m := range w.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ComputeBalance reconstructs the wallet's current balance from its state
// and transaction history. The base is the manual checkpoint if one was
// set, otherwise the initial balance; transactions predating the checkpoint
// are excluded from the sum but remain in the history.
//
// The method is pure: it never errors and an empty history yields the base.
func (w *Wallet) ComputeBalance() decimal.Decimal {
	base := w.InitialBalance
	if w.ManualBalance != nil {
		base = *w.ManualBalance
	}
	sum := decimal.Zero
	for _, t := range w.Transactions {
		if w.BalanceResetAt != nil && t.CreatedAt.Before(*w.BalanceResetAt) {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return base.Add(sum)
}

// SetManualBalance rebases the ledger: the given balance becomes the new
// base and the checkpoint moves to now, permanently excluding prior
// transactions from future sums. This is deliberately not idempotent.
func (w *Wallet) SetManualBalance(balance decimal.Decimal) {
	now := time.Now().UTC()
	balance = balance.Round(2)
	w.ManualBalance = &balance
	w.BalanceResetAt = &now
	w.UpdatedAt = now
}

// NewWallet creates a wallet owned by userID. The owner is not added to
// Members; access is implicit.
func NewWallet(userID uuid.UUID, name string, walletType WalletType, currency string, initialBalance decimal.Decimal) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		ID:              uuid.New(),
		Name:            name,
		Type:            walletType,
		Currency:        currency,
		InitialBalance:  initialBalance.Round(2),
		CreatedByUserID: userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
