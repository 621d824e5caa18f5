package webapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/middleware"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AuthRoutes registers registration, login and token endpoints.
func AuthRoutes(app *fiber.App, deps Services) {
	grp := app.Group("/auth")
	grp.Post("/register", Register(deps))
	grp.Post("/login", Login(deps))
	grp.Post("/refresh", Refresh(deps))
	grp.Post("/change-password", middleware.JwtProtected(&deps.Cfg.Jwt), ChangePassword(deps))
}

// Register creates a user together with their default wallet. The two are
// written in one transaction, so a failed wallet insert leaves no user row
// behind.
func Register(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[RegisterRequest](c)
		if err != nil {
			return nil
		}
		user, err := deps.Auth.Register(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return ErrorResponseJSON(c, fiber.StatusConflict, "Registration failed", domain.ErrEmailTaken.Error())
			}
			return ErrorResponseJSON(c, fiber.StatusInternalServerError, "Registration failed", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "user registered",
			Data:    toUserResponse(user),
		})
	}
}

func Login(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[LoginRequest](c)
		if err != nil {
			return nil
		}
		pair, err := deps.Auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return serviceError(c, "Login failed", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "logged in", Data: pair})
	}
}

// Refresh exchanges an expired access token plus the matching refresh token
// for a fresh pair. Both tokens rotate.
func Refresh(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := BindAndValidate[RefreshRequest](c)
		if err != nil {
			return nil
		}
		pair, err := deps.Auth.Refresh(c.UserContext(), req.AccessToken, req.RefreshToken)
		if err != nil {
			return serviceError(c, "Token refresh failed", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "token refreshed", Data: pair})
	}
}

func ChangePassword(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		req, err := BindAndValidate[ChangePasswordRequest](c)
		if err != nil {
			return nil
		}
		if err := deps.Auth.ChangePassword(c.UserContext(), userID, req.CurrentPassword, req.NewPassword); err != nil {
			return serviceError(c, "Password change failed", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "password changed"})
	}
}
