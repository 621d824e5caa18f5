package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/domain"
	repo "github.com/mlisik/walletd/pkg/repository"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return mapError(r.db.WithContext(ctx).Create(transactionToModel(t)).Error)
}

func (r *transactionRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).
		First(&m, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, mapError(err)
	}
	return transactionToDomain(&m), nil
}

func (r *transactionRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter repo.TransactionFilter) ([]*domain.Transaction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case filter.Sign > 0:
		q = q.Where("amount > 0")
	case filter.Sign < 0:
		q = q.Where("amount < 0")
	}
	if filter.WalletID != nil {
		q = q.Where("wallet_id = ?", *filter.WalletID)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at <= ?", filter.To)
	}

	var models []Transaction
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, mapError(err)
	}
	transactions := make([]*domain.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, transactionToDomain(&models[i]))
	}
	return transactions, nil
}

func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	res := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"amount":      t.Amount,
			"description": t.Description,
			"category_id": t.CategoryID,
			"created_at":  t.CreatedAt,
			"updated_at":  t.UpdatedAt,
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
