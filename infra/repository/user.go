package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/domain"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return mapError(r.db.WithContext(ctx).Create(userToModel(u)).Error)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var m User
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m User
	err := r.db.WithContext(ctx).First(&m, "email = ?", domain.NormalizeEmail(email)).Error
	if err != nil {
		return nil, mapError(err)
	}
	return userToDomain(&m), nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&User{ID: u.ID}).Updates(map[string]any{
		"email":                 u.Email,
		"hashed_password":       u.HashedPassword,
		"refresh_token":         u.RefreshToken,
		"refresh_token_expires": u.RefreshTokenExpires,
		"main_wallet_id":        u.MainWalletID,
		"last_login_at":         u.LastLoginAt,
	})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Membership rows live in other users' wallets and must not outlive
	// the account, or owners keep listing a deleted user as a member.
	if err := r.db.WithContext(ctx).Delete(&WalletMember{}, "user_id = ?", id).Error; err != nil {
		return mapError(err)
	}
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
