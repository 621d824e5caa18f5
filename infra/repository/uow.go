// Package repository implements the persistence contracts from
// pkg/repository on top of GORM.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/repository"
)

// UoW binds all repositories to one *gorm.DB session. Inside Do the
// session is a database transaction, so every repository obtained from the
// UnitOfWork handed to fn participates in the same atomic unit.
type UoW struct {
	db *gorm.DB
}

func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: tx})
	})
}

func (u *UoW) Users() repository.UserRepository {
	return &userRepository{db: u.db}
}

func (u *UoW) Wallets() repository.WalletRepository {
	return &walletRepository{db: u.db}
}

func (u *UoW) Categories() repository.CategoryRepository {
	return &categoryRepository{db: u.db}
}

func (u *UoW) Transactions() repository.TransactionRepository {
	return &transactionRepository{db: u.db}
}
