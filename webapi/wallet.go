package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/middleware"
)

type CreateWalletRequest struct {
	Name           string          `json:"name" validate:"required"`
	Type           string          `json:"type"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type UpdateWalletRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type"`
	Currency string `json:"currency" validate:"required,len=3"`
}

type SetBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

type AddMemberRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	Email  string     `json:"email" validate:"omitempty,email"`
}

// WalletRoutes registers wallet CRUD, balance and membership endpoints.
func WalletRoutes(app *fiber.App, deps Services) {
	grp := app.Group("/wallets", middleware.JwtProtected(&deps.Cfg.Jwt))
	grp.Post("/", CreateWallet(deps))
	grp.Get("/", ListWallets(deps))
	grp.Get("/:id", GetWallet(deps))
	grp.Put("/:id", UpdateWallet(deps))
	grp.Delete("/:id", DeleteWallet(deps))
	grp.Get("/:id/balance", GetWalletBalance(deps))
	grp.Put("/:id/balance", SetWalletBalance(deps))
	grp.Get("/:id/transactions", ListWalletTransactions(deps))
	grp.Get("/:id/members", ListWalletMembers(deps))
	grp.Post("/:id/members", AddWalletMember(deps))
	grp.Delete("/:id/members/:userId", RemoveWalletMember(deps))
}

func CreateWallet(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		req, err := BindAndValidate[CreateWalletRequest](c)
		if err != nil {
			return nil
		}
		w, err := deps.Wallet.Create(c.UserContext(), userID, req.Name, domain.WalletType(req.Type), req.Currency, req.InitialBalance)
		if err != nil {
			return serviceError(c, "Failed to create wallet", err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "wallet created",
			Data:    toWalletResponse(w),
		})
	}
}

func ListWallets(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		ws, err := deps.Wallet.List(c.UserContext(), userID)
		if err != nil {
			return serviceError(c, "Failed to list wallets", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "wallets", Data: toWalletResponses(ws)})
	}
}

func GetWallet(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		w, err := deps.Wallet.Get(c.UserContext(), walletID, userID)
		if err != nil {
			return serviceError(c, "Failed to get wallet", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "wallet", Data: toWalletResponse(w)})
	}
}

func UpdateWallet(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		req, err := BindAndValidate[UpdateWalletRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.Wallet.Update(c.UserContext(), walletID, userID, req.Name, domain.WalletType(req.Type), req.Currency); err != nil {
			return serviceError(c, "Failed to update wallet", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "wallet updated"})
	}
}

func DeleteWallet(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		if err := deps.Wallet.Delete(c.UserContext(), walletID, userID); err != nil {
			return serviceError(c, "Failed to delete wallet", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "wallet deleted"})
	}
}

// GetWalletBalance reconstructs the balance from the transaction log on
// demand. Nothing is stored.
func GetWalletBalance(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		b, err := deps.Wallet.GetBalance(c.UserContext(), walletID, userID)
		if err != nil {
			return serviceError(c, "Failed to get balance", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "balance", Data: b})
	}
}

// SetWalletBalance records a manual checkpoint. Transactions dated before
// the checkpoint stop counting toward the balance.
func SetWalletBalance(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		req, err := BindAndValidate[SetBalanceRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.Wallet.SetManualBalance(c.UserContext(), walletID, userID, req.Balance); err != nil {
			return serviceError(c, "Failed to set balance", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "balance set"})
	}
}

func ListWalletTransactions(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		ts, err := deps.Transaction.ListByWallet(c.UserContext(), walletID, userID)
		if err != nil {
			return serviceError(c, "Failed to list transactions", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "transactions", Data: toTransactionResponses(ts)})
	}
}

func ListWalletMembers(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		members, err := deps.Wallet.ListMembers(c.UserContext(), walletID, userID)
		if err != nil {
			return serviceError(c, "Failed to list members", err)
		}
		out := make([]MemberResponse, 0, len(members))
		for _, m := range members {
			out = append(out, MemberResponse{WalletID: m.WalletID, UserID: m.UserID})
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "members", Data: out})
	}
}

// AddWalletMember shares the wallet with another user, addressed by id or
// email. Owner only.
func AddWalletMember(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		req, err := BindAndValidate[AddMemberRequest](c)
		if err != nil {
			return nil
		}
		if req.UserID == nil && req.Email == "" {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", "user_id or email is required")
		}
		m, err := deps.Wallet.AddMember(c.UserContext(), walletID, userID, req.UserID, req.Email)
		if err != nil {
			return serviceError(c, "Failed to add member", err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "member added",
			Data:    MemberResponse{WalletID: m.WalletID, UserID: m.UserID},
		})
	}
}

func RemoveWalletMember(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		targetID, err := paramUUID(c, "userId")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid user id", err.Error())
		}
		if err := deps.Wallet.RemoveMember(c.UserContext(), walletID, userID, targetID); err != nil {
			return serviceError(c, "Failed to remove member", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "member removed"})
	}
}
