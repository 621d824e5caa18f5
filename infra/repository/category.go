package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/domain"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	// The unique index does not catch two global categories with the same
	// name (NULL owners compare distinct), so check the scope explicitly.
	q := r.db.WithContext(ctx).Model(&Category{}).Where("name = ?", c.Name)
	if c.UserID == nil {
		q = q.Where("user_id IS NULL")
	} else {
		q = q.Where("user_id = ?", *c.UserID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return mapError(err)
	}
	if n > 0 {
		return domain.ErrCategoryTaken
	}
	return mapError(r.db.WithContext(ctx).Create(categoryToModel(c)).Error)
}

func (r *categoryRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var m Category
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return categoryToDomain(&m), nil
}

func (r *categoryRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	var models []Category
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err)
	}
	categories := make([]*domain.Category, 0, len(models))
	for i := range models {
		categories = append(categories, categoryToDomain(&models[i]))
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *domain.Category) error {
	res := r.db.WithContext(ctx).Model(&Category{}).
		Where("id = ?", c.ID).
		Update("name", c.Name)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) CountGlobal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Category{}).Where("user_id IS NULL").Count(&n).Error
	return n, mapError(err)
}
