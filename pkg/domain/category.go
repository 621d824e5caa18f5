package domain

import (
	"github.com/google/uuid"
)

// Category labels transactions. A nil UserID marks a global category,
// visible to everyone but mutable by no one. (Name, UserID) is unique per
// scope.
type Category struct {
	ID     uuid.UUID
	Name   string
	UserID *uuid.UUID
}

// IsGlobal reports whether the category has no owner.
func (c *Category) IsGlobal() bool { return c.UserID == nil }

// VisibleTo reports whether userID may see the category: global categories
// are visible to everyone, owned categories only to their owner.
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	return c.IsGlobal() || *c.UserID == userID
}

// NewCategory creates a category owned by userID.
func NewCategory(userID uuid.UUID, name string) *Category {
	return &Category{ID: uuid.New(), Name: name, UserID: &userID}
}

// NewGlobalCategory creates an ownerless category shared by all users.
func NewGlobalCategory(name string) *Category {
	return &Category{ID: uuid.New(), Name: name}
}
