package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a signed ledger entry. The sign of Amount is the sole type
// discriminator: positive is income, negative is expense. There is no
// separate type field, so every read and update path re-derives the kind
// from the sign.
type Transaction struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	UserID      uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
	// CreatedAt is the business date of the entry, settable independently
	// of insert time so imports can backdate.
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Transaction) IsIncome() bool  { return t.Amount.IsPositive() }
func (t *Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// NormalizeIncome returns the amount an income entry stores: the absolute
// value quantized to two decimal places, regardless of the caller-supplied
// sign or scale.
func NormalizeIncome(amount decimal.Decimal) decimal.Decimal {
	return amount.Abs().Round(2)
}

// NormalizeExpense returns the amount an expense entry stores: always
// negative, quantized to two decimal places.
func NormalizeExpense(amount decimal.Decimal) decimal.Decimal {
	return amount.Abs().Round(2).Neg()
}

func newTransaction(walletID, userID uuid.UUID, categoryID *uuid.UUID, amount decimal.Decimal, description string, occurredAt time.Time) (*Transaction, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return &Transaction{
		ID:          uuid.New(),
		WalletID:    walletID,
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		CreatedAt:   occurredAt,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// NewIncome creates an income entry. occurredAt may be the zero time to
// mean "now".
func NewIncome(walletID, userID uuid.UUID, categoryID *uuid.UUID, amount decimal.Decimal, description string, occurredAt time.Time) (*Transaction, error) {
	return newTransaction(walletID, userID, categoryID, NormalizeIncome(amount), description, occurredAt)
}

// NewExpense creates an expense entry; the stored amount is always negative.
func NewExpense(walletID, userID uuid.UUID, categoryID *uuid.UUID, amount decimal.Decimal, description string, occurredAt time.Time) (*Transaction, error) {
	return newTransaction(walletID, userID, categoryID, NormalizeExpense(amount), description, occurredAt)
}
