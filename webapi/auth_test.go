package webapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mlisik/walletd/pkg/service/auth"
)

func (s *APISuite) TestRegisterCreatesMainWallet() {
	user := s.register("anna@example.com", "password123")
	s.Equal("anna@example.com", user.Email)
	s.Require().NotNil(user.MainWalletID)

	pair := s.login("anna@example.com", "password123")
	res := s.request(fiber.MethodGet, "/wallets/"+user.MainWalletID.String(), pair.AccessToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	w := decodeData[WalletResponse](s, res)
	s.Equal("Main Wallet", w.Name)
	s.True(w.InitialBalance.IsZero())
}

func (s *APISuite) TestRegisterDuplicateEmail() {
	s.register("anna@example.com", "password123")
	res := s.request(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "different123",
	})
	s.Equal(fiber.StatusConflict, res.StatusCode)
}

func (s *APISuite) TestRegisterEmailCaseInsensitive() {
	s.register("anna@example.com", "password123")
	res := s.request(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "Anna@Example.com",
		"password": "different123",
	})
	s.Equal(fiber.StatusConflict, res.StatusCode)
}

func (s *APISuite) TestRegisterValidation() {
	res := s.request(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "not-an-email",
		"password": "password123",
	})
	s.Equal(fiber.StatusBadRequest, res.StatusCode)

	res = s.request(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "short",
	})
	s.Equal(fiber.StatusBadRequest, res.StatusCode)
}

func (s *APISuite) TestLoginWrongPassword() {
	s.register("anna@example.com", "password123")
	res := s.request(fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "wrongpassword",
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}

func (s *APISuite) TestLoginUnknownUser() {
	res := s.request(fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "ghost@example.com",
		"password": "password123",
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}

func (s *APISuite) TestRefreshRotatesTokens() {
	s.register("anna@example.com", "password123")
	pair := s.login("anna@example.com", "password123")

	res := s.request(fiber.MethodPost, "/auth/refresh", "", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	fresh := decodeData[auth.TokenPair](s, res)
	s.NotEqual(pair.RefreshToken, fresh.RefreshToken)

	// The old refresh token is spent.
	res = s.request(fiber.MethodPost, "/auth/refresh", "", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}

func (s *APISuite) TestRefreshRejectsForeignToken() {
	s.register("anna@example.com", "password123")
	pair := s.login("anna@example.com", "password123")

	res := s.request(fiber.MethodPost, "/auth/refresh", "", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": "not-the-stored-token",
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}

func (s *APISuite) TestChangePassword() {
	token, _ := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/auth/change-password", token, fiber.Map{
		"current_password": "password123",
		"new_password":     "newpassword456",
	})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "anna@example.com",
		"password": "password123",
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)

	s.login("anna@example.com", "newpassword456")
}

func (s *APISuite) TestChangePasswordWrongCurrent() {
	token, _ := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/auth/change-password", token, fiber.Map{
		"current_password": "wrongpassword",
		"new_password":     "newpassword456",
	})
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}

func (s *APISuite) TestProtectedRoutesRequireToken() {
	res := s.request(fiber.MethodGet, "/wallets/", "", nil)
	s.Equal(fiber.StatusBadRequest, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/", "garbage.token.here", nil)
	s.Equal(fiber.StatusUnauthorized, res.StatusCode)
}
