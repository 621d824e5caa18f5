package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
)

// User is the users table row.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email               string    `gorm:"uniqueIndex;not null;size:255"`
	HashedPassword      string    `gorm:"not null"`
	RefreshToken        string    `gorm:"size:255"`
	RefreshTokenExpires *time.Time
	MainWalletID        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time
	LastLoginAt         *time.Time
}

// Wallet is the wallets table row. Money columns are fixed-point
// decimal(18,2); the balance itself is never stored.
type Wallet struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name            string           `gorm:"size:100;not null"`
	Type            string           `gorm:"size:20;not null;default:'personal'"`
	Currency        string           `gorm:"size:10;not null;default:'PLN'"`
	InitialBalance  decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ManualBalance   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	BalanceResetAt  *time.Time
	CreatedByUserID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Deleting a wallet cascades to its member rows and transactions;
	// deleting a user never cascades here.
	Members      []WalletMember `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
	Transactions []Transaction  `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

// WalletMember is the composite-key membership row.
type WalletMember struct {
	WalletID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// Category is the categories table row. The composite unique index covers
// owned categories; global-name collisions (NULL owner) are additionally
// guarded in Create because SQL unique indexes treat NULLs as distinct.
type Category struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name   string     `gorm:"size:100;not null;uniqueIndex:idx_categories_name_user"`
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_categories_name_user"`
}

// Transaction is the transactions table row. CreatedAt is the business
// date and is set by the caller, not by GORM.
type Transaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WalletID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID `gorm:"type:uuid"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"size:255"`
	CreatedAt   time.Time       `gorm:"index"`
	UpdatedAt   time.Time
}

// Models lists every table for AutoMigrate, leaves first.
func Models() []any {
	return []any{&User{}, &Wallet{}, &WalletMember{}, &Category{}, &Transaction{}}
}

func userToDomain(m *User) *domain.User {
	return &domain.User{
		ID:                  m.ID,
		Email:               m.Email,
		HashedPassword:      m.HashedPassword,
		RefreshToken:        m.RefreshToken,
		RefreshTokenExpires: m.RefreshTokenExpires,
		MainWalletID:        m.MainWalletID,
		CreatedAt:           m.CreatedAt,
		LastLoginAt:         m.LastLoginAt,
	}
}

func userToModel(u *domain.User) *User {
	return &User{
		ID:                  u.ID,
		Email:               u.Email,
		HashedPassword:      u.HashedPassword,
		RefreshToken:        u.RefreshToken,
		RefreshTokenExpires: u.RefreshTokenExpires,
		MainWalletID:        u.MainWalletID,
		CreatedAt:           u.CreatedAt,
		LastLoginAt:         u.LastLoginAt,
	}
}

func walletToDomain(m *Wallet) *domain.Wallet {
	w := &domain.Wallet{
		ID:              m.ID,
		Name:            m.Name,
		Type:            domain.WalletType(m.Type),
		Currency:        m.Currency,
		InitialBalance:  m.InitialBalance,
		ManualBalance:   m.ManualBalance,
		BalanceResetAt:  m.BalanceResetAt,
		CreatedByUserID: m.CreatedByUserID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for _, mm := range m.Members {
		w.Members = append(w.Members, domain.WalletMember{WalletID: mm.WalletID, UserID: mm.UserID})
	}
	for i := range m.Transactions {
		w.Transactions = append(w.Transactions, *transactionToDomain(&m.Transactions[i]))
	}
	return w
}

func walletToModel(w *domain.Wallet) *Wallet {
	return &Wallet{
		ID:              w.ID,
		Name:            w.Name,
		Type:            string(w.Type),
		Currency:        w.Currency,
		InitialBalance:  w.InitialBalance,
		ManualBalance:   w.ManualBalance,
		BalanceResetAt:  w.BalanceResetAt,
		CreatedByUserID: w.CreatedByUserID,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func categoryToDomain(m *Category) *domain.Category {
	return &domain.Category{ID: m.ID, Name: m.Name, UserID: m.UserID}
}

func categoryToModel(c *domain.Category) *Category {
	return &Category{ID: c.ID, Name: c.Name, UserID: c.UserID}
}

func transactionToDomain(m *Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          m.ID,
		WalletID:    m.WalletID,
		UserID:      m.UserID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func transactionToModel(t *domain.Transaction) *Transaction {
	return &Transaction{
		ID:          t.ID,
		WalletID:    t.WalletID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
