package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mlisik/walletd/pkg/middleware"
)

// UserRoutes registers endpoints about the authenticated user.
func UserRoutes(app *fiber.App, deps Services) {
	grp := app.Group("/user", middleware.JwtProtected(&deps.Cfg.Jwt))
	grp.Get("/me", Me(deps))
	grp.Delete("/me", DeleteAccount(deps))
	grp.Put("/main-wallet/:walletId", SetMainWallet(deps))
}

func Me(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		user, err := deps.Auth.GetUser(c.UserContext(), userID)
		if err != nil {
			return serviceError(c, "Failed to load user", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "user", Data: toUserResponse(user)})
	}
}

func DeleteAccount(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		if err := deps.Auth.DeleteUser(c.UserContext(), userID); err != nil {
			return serviceError(c, "Failed to delete account", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "account deleted"})
	}
}

// SetMainWallet points the user's default view at an accessible wallet.
// Membership is enough, so a shared wallet can be someone's main one.
func SetMainWallet(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		walletID, err := paramUUID(c, "walletId")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid wallet id", err.Error())
		}
		if err := deps.Wallet.SetMainWallet(c.UserContext(), userID, walletID); err != nil {
			return serviceError(c, "Failed to set main wallet", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "main wallet updated"})
	}
}
