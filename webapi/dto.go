package webapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
)

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	MainWalletID *uuid.UUID `json:"main_wallet_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		MainWalletID: u.MainWalletID,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
	}
}

type WalletResponse struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Type            domain.WalletType `json:"type"`
	Currency        string            `json:"currency"`
	InitialBalance  decimal.Decimal   `json:"initial_balance"`
	ManualBalance   *decimal.Decimal  `json:"manual_balance,omitempty"`
	BalanceResetAt  *time.Time        `json:"balance_reset_at,omitempty"`
	CurrentBalance  decimal.Decimal   `json:"current_balance"`
	CreatedByUserID uuid.UUID         `json:"created_by_user_id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:              w.ID,
		Name:            w.Name,
		Type:            w.Type,
		Currency:        w.Currency,
		InitialBalance:  w.InitialBalance,
		ManualBalance:   w.ManualBalance,
		BalanceResetAt:  w.BalanceResetAt,
		CurrentBalance:  w.ComputeBalance(),
		CreatedByUserID: w.CreatedByUserID,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func toWalletResponses(ws []*domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, toWalletResponse(w))
	}
	return out
}

type MemberResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	UserID   uuid.UUID `json:"user_id"`
}

type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	WalletID    uuid.UUID       `json:"wallet_id"`
	UserID      uuid.UUID       `json:"user_id"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
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

func toTransactionResponses(ts []*domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTransactionResponse(t))
	}
	return out
}

type CategoryResponse struct {
	ID     uuid.UUID  `json:"id"`
	Name   string     `json:"name"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Global bool       `json:"global"`
}

func toCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, UserID: c.UserID, Global: c.IsGlobal()}
}

func toCategoryResponses(cs []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryResponse(c))
	}
	return out
}
