package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mlisik/walletd/pkg/middleware"
)

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// CategoryRoutes registers category endpoints. Listings merge the global
// set with the caller's own categories; globals are read-only here.
func CategoryRoutes(app *fiber.App, deps Services) {
	grp := app.Group("/categories", middleware.JwtProtected(&deps.Cfg.Jwt))
	grp.Post("/", CreateCategory(deps))
	grp.Get("/", ListCategories(deps))
	grp.Get("/:id", GetCategory(deps))
	grp.Put("/:id", UpdateCategory(deps))
	grp.Delete("/:id", DeleteCategory(deps))
}

func CreateCategory(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		req, err := BindAndValidate[CategoryRequest](c)
		if err != nil {
			return nil
		}
		cat, err := deps.Category.Create(c.UserContext(), userID, req.Name)
		if err != nil {
			return serviceError(c, "Failed to create category", err)
		}
		return c.Status(fiber.StatusCreated).JSON(Response{
			Status:  fiber.StatusCreated,
			Message: "category created",
			Data:    toCategoryResponse(cat),
		})
	}
}

func ListCategories(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		cats, err := deps.Category.List(c.UserContext(), userID)
		if err != nil {
			return serviceError(c, "Failed to list categories", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "categories", Data: toCategoryResponses(cats)})
	}
}

func GetCategory(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category id", err.Error())
		}
		cat, err := deps.Category.Get(c.UserContext(), id, userID)
		if err != nil {
			return serviceError(c, "Failed to get category", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "category", Data: toCategoryResponse(cat)})
	}
}

func UpdateCategory(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category id", err.Error())
		}
		req, err := BindAndValidate[CategoryRequest](c)
		if err != nil {
			return nil
		}
		cat, err := deps.Category.Update(c.UserContext(), id, userID, req.Name)
		if err != nil {
			return serviceError(c, "Failed to update category", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "category updated", Data: toCategoryResponse(cat)})
	}
}

func DeleteCategory(deps Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := currentUserID(c, deps.Auth)
		if err != nil {
			return serviceError(c, "Unauthorized", err)
		}
		id, err := paramUUID(c, "id")
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category id", err.Error())
		}
		if err := deps.Category.Delete(c.UserContext(), id, userID); err != nil {
			return serviceError(c, "Failed to delete category", err)
		}
		return c.JSON(Response{Status: fiber.StatusOK, Message: "category deleted"})
	}
}
