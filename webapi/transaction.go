package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/middleware"
	"github.com/mlisik/walletd/pkg/service/transaction"
)

type CreateTransactionRequest struct {
	WalletID    uuid.UUID       `json:"wallet_id" validate:"required"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  *time.Time      `json:"occurred_at"`
}

type UpdateTransactionRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  *time.Time      `json:"occurred_at"`
}

// TransactionRoutes registers the transaction log and statistics endpoints.
// Income and expense are separate resources so the sign is carried by the
// route, never by the caller's amount.
func TransactionRoutes(app *fiber.App, deps Services) {
	grp := app.Group("/transactions", middleware.JwtProtected(&deps.Cfg.Jwt))
	grp.Get("/", ListTransactions(deps, 0))
	grp.Get("/incomes", ListTransactions(deps, 1))
	grp.Get("/expenses", ListTransactions(deps, -1))
	grp.Post("/incomes", CreateTransaction(deps, true))
	grp.Post("/expenses", CreateTransaction(deps, false))
	grp.Put("/incomes/:id", UpdateTransaction(deps, true))
	grp.Put("/expenses/:id", UpdateTransaction(deps, false))
	grp.Get("/:id", GetTransaction(deps))
	grp.Delete("/:id", DeleteTransaction(deps))

	stats := app.Group("/statistics", middleware.JwtProtected(&deps.Cfg.Jwt))
	stats.Get("/summary", StatisticsSummary(deps))
	stats.Get("/series", IncomeExpenseSeries(deps))
	stats.Get("/categories", CategoryBreakdown(deps))
}

func CreateTransaction(deps Services, income bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		req, err := BindAndValidate[CreateTransactionRequest](c)
		if err != nil {
			return nil
		}
		in := transaction.CreateInput{
			WalletID:    req.WalletID,
			CategoryID:  req.CategoryID,
			Amount:      req.Amount,
			Description: req.Description,
		}
		if req.OccurredAt != nil {
			in.OccurredAt = *req.OccurredAt
		}
		add := deps.Transaction.AddExpense
		if income {
			add = deps.Transaction.AddIncome
		}
		t, err := add(c.UserContext(), userID, in)
		if err != nil {
			return serviceError(c, "Failed to create transaction", err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "transaction created",
			Data:    toTransactionResponse(t),
		})
	}
}

func UpdateTransaction(deps Services, income bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		req, err := BindAndValidate[UpdateTransactionRequest](c)
		if err != nil {
			return nil
		}
		in := transaction.UpdateInput{
			CategoryID:  req.CategoryID,
			Amount:      req.Amount,
			Description: req.Description,
		}
		if req.OccurredAt != nil {
			in.OccurredAt = *req.OccurredAt
		}
		if income {
			err = deps.Transaction.UpdateIncome(c.UserContext(), id, userID, in)
		} else {
			err = deps.Transaction.UpdateExpense(c.UserContext(), id, userID, in)
		}
		if err != nil {
			return serviceError(c, "Failed to update transaction", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "transaction updated"})
	}
}

func GetTransaction(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		t, err := deps.Transaction.Get(c.UserContext(), id, userID)
		if err != nil {
			return serviceError(c, "Failed to get transaction", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "transaction", Data: toTransactionResponse(t)})
	}
}

// ListTransactions lists the caller's own entries. sign > 0 restricts to
// incomes, sign < 0 to expenses, 0 lists both.
func ListTransactions(deps Services, sign int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		ts, err := deps.Transaction.List(c.UserContext(), userID, sign)
		if err != nil {
			return serviceError(c, "Failed to list transactions", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "transactions", Data: toTransactionResponses(ts)})
	}
}

func DeleteTransaction(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		if err := deps.Transaction.Delete(c.UserContext(), id, userID); err != nil {
			return serviceError(c, "Failed to delete transaction", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "transaction deleted"})
	}
}

func StatisticsSummary(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, from, to, err := statisticsArgs(c, deps)
		if err != nil {
			return nil
		}
		s, err := deps.Transaction.StatisticsSummary(c.UserContext(), userID, from, to)
		if err != nil {
			return serviceError(c, "Failed to compute summary", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "summary", Data: s})
	}
}

func IncomeExpenseSeries(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, from, to, err := statisticsArgs(c, deps)
		if err != nil {
			return nil
		}
		series, err := deps.Transaction.IncomeExpenseSeries(c.UserContext(), userID, from, to)
		if err != nil {
			return serviceError(c, "Failed to compute series", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "series", Data: series})
	}
}

func CategoryBreakdown(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, from, to, err := statisticsArgs(c, deps)
		if err != nil {
			return nil
		}
		b, err := deps.Transaction.CategoryBreakdown(c.UserContext(), userID, from, to)
		if err != nil {
			return serviceError(c, "Failed to compute breakdown", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "breakdown", Data: b})
	}
}

// statisticsArgs resolves the caller and the optional from/to range. On
// failure the response is already written and err is non-nil.
func statisticsArgs(c *fiber.Ctx, deps Services) (uuid.UUID, time.Time, time.Time, error) {
	userID, err := currentUserID(c, deps.Auth)
	if err != nil {
		serviceError(c, "Unauthorized", err)
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	from, err := queryTime(c, "from")
	if err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid from date", err.Error())
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid to date", err.Error())
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	return userID, from, to, nil
}
