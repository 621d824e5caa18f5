package webapi

import (
	"github.com/gofiber/fiber/v2"
)

func (s *APISuite) globalCategories(token string) []CategoryResponse {
	res := s.request(fiber.MethodGet, "/categories/", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	all := decodeData[[]CategoryResponse](s, res)
	out := make([]CategoryResponse, 0, len(all))
	for _, c := range all {
		if c.Global {
			out = append(out, c)
		}
	}
	return out
}

func (s *APISuite) TestGlobalCategoriesSeeded() {
	token, _ := s.signup("anna@example.com")
	s.NotEmpty(s.globalCategories(token))
}

func (s *APISuite) TestCreateCategory() {
	token, _ := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/categories/", token, fiber.Map{"name": "Books"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	cat := decodeData[CategoryResponse](s, res)
	s.Equal("Books", cat.Name)
	s.False(cat.Global)
}

func (s *APISuite) TestDuplicateCategoryNameConflicts() {
	token, _ := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/categories/", token, fiber.Map{"name": "Books"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodPost, "/categories/", token, fiber.Map{"name": "Books"})
	s.Equal(fiber.StatusConflict, res.StatusCode)
}

func (s *APISuite) TestSameNameDifferentUsersAllowed() {
	aliceToken, _ := s.signup("alice@example.com")
	bobToken, _ := s.signup("bob@example.com")

	res := s.request(fiber.MethodPost, "/categories/", aliceToken, fiber.Map{"name": "Books"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodPost, "/categories/", bobToken, fiber.Map{"name": "Books"})
	s.Equal(fiber.StatusCreated, res.StatusCode)
}

func (s *APISuite) TestGlobalCategoryImmutable() {
	token, _ := s.signup("anna@example.com")
	globals := s.globalCategories(token)
	s.Require().NotEmpty(globals)
	id := globals[0].ID.String()

	res := s.request(fiber.MethodPut, "/categories/"+id, token, fiber.Map{"name": "Renamed"})
	s.Equal(fiber.StatusForbidden, res.StatusCode)

	res = s.request(fiber.MethodDelete, "/categories/"+id, token, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)
}

func (s *APISuite) TestForeignCategoryNotFound() {
	aliceToken, _ := s.signup("alice@example.com")
	bobToken, _ := s.signup("bob@example.com")

	res := s.request(fiber.MethodPost, "/categories/", aliceToken, fiber.Map{"name": "Secret"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	cat := decodeData[CategoryResponse](s, res)

	// Private categories of other users look like they do not exist.
	res = s.request(fiber.MethodGet, "/categories/"+cat.ID.String(), bobToken, nil)
	s.Equal(fiber.StatusNotFound, res.StatusCode)

	res = s.request(fiber.MethodPut, "/categories/"+cat.ID.String(), bobToken, fiber.Map{"name": "Stolen"})
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}

func (s *APISuite) TestUpdateAndDeleteOwnCategory() {
	token, _ := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/categories/", token, fiber.Map{"name": "Books"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	cat := decodeData[CategoryResponse](s, res)

	res = s.request(fiber.MethodPut, "/categories/"+cat.ID.String(), token, fiber.Map{"name": "Literature"})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Equal("Literature", decodeData[CategoryResponse](s, res).Name)

	res = s.request(fiber.MethodDelete, "/categories/"+cat.ID.String(), token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/categories/"+cat.ID.String(), token, nil)
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}
