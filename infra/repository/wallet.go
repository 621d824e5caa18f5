package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/domain"
)

type walletRepository struct {
	db *gorm.DB
}

func (r *walletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	m := walletToModel(w)
	for _, mem := range w.Members {
		m.Members = append(m.Members, WalletMember{WalletID: mem.WalletID, UserID: mem.UserID})
	}
	return mapError(r.db.WithContext(ctx).Create(m).Error)
}

func (r *walletRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	var m Wallet
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Transactions").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return walletToDomain(&m), nil
}

func (r *walletRepository) ListAccessible(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	var models []Wallet
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Transactions").
		Where("created_by_user_id = ?", userID).
		Or("id IN (?)", r.db.Model(&WalletMember{}).Select("wallet_id").Where("user_id = ?", userID)).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	wallets := make([]*domain.Wallet, 0, len(models))
	for i := range models {
		wallets = append(wallets, walletToDomain(&models[i]))
	}
	return wallets, nil
}

func (r *walletRepository) Update(ctx context.Context, w *domain.Wallet) error {
	res := r.db.WithContext(ctx).Model(&Wallet{ID: w.ID}).Updates(map[string]any{
		"name":             w.Name,
		"type":             string(w.Type),
		"currency":         w.Currency,
		"initial_balance":  w.InitialBalance,
		"manual_balance":   w.ManualBalance,
		"balance_reset_at": w.BalanceResetAt,
		"updated_at":       w.UpdatedAt,
	})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *walletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Member and transaction rows go with the wallet; SQLite in tests does
	// not always enforce the declared cascade, so delete explicitly inside
	// the surrounding unit of work.
	if err := r.db.WithContext(ctx).Delete(&WalletMember{}, "wallet_id = ?", id).Error; err != nil {
		return mapError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&Transaction{}, "wallet_id = ?", id).Error; err != nil {
		return mapError(err)
	}
	res := r.db.WithContext(ctx).Delete(&Wallet{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *walletRepository) AddMember(ctx context.Context, m *domain.WalletMember) error {
	return mapError(r.db.WithContext(ctx).Create(&WalletMember{WalletID: m.WalletID, UserID: m.UserID}).Error)
}

func (r *walletRepository) RemoveMember(ctx context.Context, walletID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Delete(&WalletMember{}, "wallet_id = ? AND user_id = ?", walletID, userID)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *walletRepository) CountOwnedBy(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Wallet{}).
		Where("created_by_user_id = ?", userID).Count(&n).Error
	return n, mapError(err)
}

func (r *walletRepository) IsMainWalletForOtherUser(ctx context.Context, walletID, userID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("main_wallet_id = ? AND id <> ?", walletID, userID).Count(&n).Error
	return n > 0, mapError(err)
}

func (r *walletRepository) ClearMainWallet(ctx context.Context, walletID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&User{}).
		Where("main_wallet_id = ?", walletID).
		Update("main_wallet_id", nil).Error
	return mapError(err)
}
