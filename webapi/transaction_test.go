package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mlisik/walletd/pkg/service/transaction"
)

func (s *APISuite) TestIncomeSignNormalized() {
	token, user := s.signup("anna@example.com")

	// A negative amount on the income route is still stored positive.
	res := s.request(fiber.MethodPost, "/transactions/incomes", token, fiber.Map{
		"wallet_id": user.MainWalletID,
		"amount":    "-300",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	t := decodeData[TransactionResponse](s, res)
	s.Equal("300", t.Amount.String())
}

func (s *APISuite) TestExpenseSignNormalized() {
	token, user := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id": user.MainWalletID,
		"amount":    "75.50",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	t := decodeData[TransactionResponse](s, res)
	s.Equal("-75.5", t.Amount.String())
}

func (s *APISuite) TestAmountQuantizedToCents() {
	token, user := s.signup("anna@example.com")

	// Sub-cent precision never reaches the ledger.
	res := s.request(fiber.MethodPost, "/transactions/incomes", token, fiber.Map{
		"wallet_id": user.MainWalletID,
		"amount":    "10.999",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	t := decodeData[TransactionResponse](s, res)
	s.Equal("11", t.Amount.String())
	s.Equal("11", s.balance(token, *user.MainWalletID).CurrentBalance.String())
}

func (s *APISuite) TestZeroAmountRejected() {
	token, user := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/transactions/incomes", token, fiber.Map{
		"wallet_id": user.MainWalletID,
		"amount":    "0",
	})
	s.Equal(fiber.StatusBadRequest, res.StatusCode)
}

func (s *APISuite) TestUpdateIsSignScoped() {
	token, user := s.signup("anna@example.com")
	t := s.addExpense(token, *user.MainWalletID, "50")

	// An expense is invisible to the income update route.
	res := s.request(fiber.MethodPut, "/transactions/incomes/"+t.ID.String(), token, fiber.Map{
		"amount": "60",
	})
	s.Equal(fiber.StatusNotFound, res.StatusCode)

	res = s.request(fiber.MethodPut, "/transactions/expenses/"+t.ID.String(), token, fiber.Map{
		"amount": "60",
	})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/transactions/"+t.ID.String(), token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	updated := decodeData[TransactionResponse](s, res)
	s.Equal("-60", updated.Amount.String())
}

func (s *APISuite) TestForeignTransactionHidden() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")

	res := s.request(fiber.MethodPost, "/wallets/"+owner.MainWalletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	t := s.addIncome(ownerToken, *owner.MainWalletID, "100")

	// Shared wallet or not, another user's entry is a 404 on the
	// per-transaction routes.
	res = s.request(fiber.MethodGet, "/transactions/"+t.ID.String(), memberToken, nil)
	s.Equal(fiber.StatusNotFound, res.StatusCode)

	res = s.request(fiber.MethodPut, "/transactions/incomes/"+t.ID.String(), memberToken, fiber.Map{
		"amount": "1",
	})
	s.Equal(fiber.StatusNotFound, res.StatusCode)

	res = s.request(fiber.MethodDelete, "/transactions/"+t.ID.String(), memberToken, nil)
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}

func (s *APISuite) TestDeleteTransaction() {
	token, user := s.signup("anna@example.com")
	t := s.addIncome(token, *user.MainWalletID, "100")

	res := s.request(fiber.MethodDelete, "/transactions/"+t.ID.String(), token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	s.Equal("0", s.balance(token, *user.MainWalletID).CurrentBalance.String())
}

func (s *APISuite) TestListIncomesAndExpenses() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID
	s.addIncome(token, walletID, "100")
	s.addIncome(token, walletID, "200")
	s.addExpense(token, walletID, "50")

	res := s.request(fiber.MethodGet, "/transactions/incomes", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Len(decodeData[[]TransactionResponse](s, res), 2)

	res = s.request(fiber.MethodGet, "/transactions/expenses", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Len(decodeData[[]TransactionResponse](s, res), 1)

	res = s.request(fiber.MethodGet, "/transactions/", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Len(decodeData[[]TransactionResponse](s, res), 3)
}

func (s *APISuite) TestTransactionWithCategory() {
	token, user := s.signup("anna@example.com")

	res := s.request(fiber.MethodGet, "/categories/", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	cats := decodeData[[]CategoryResponse](s, res)
	s.Require().NotEmpty(cats)

	res = s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id":   user.MainWalletID,
		"category_id": cats[0].ID,
		"amount":      "25",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	t := decodeData[TransactionResponse](s, res)
	s.Require().NotNil(t.CategoryID)
	s.Equal(cats[0].ID, *t.CategoryID)
}

func (s *APISuite) TestForeignPrivateCategoryHidden() {
	aliceToken, _ := s.signup("alice@example.com")
	bobToken, bob := s.signup("bob@example.com")

	res := s.request(fiber.MethodPost, "/categories/", aliceToken, fiber.Map{"name": "Secret hobby"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	cat := decodeData[CategoryResponse](s, res)

	res = s.request(fiber.MethodPost, "/transactions/expenses", bobToken, fiber.Map{
		"wallet_id":   bob.MainWalletID,
		"category_id": cat.ID,
		"amount":      "10",
	})
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}

func (s *APISuite) TestUnknownCategoryRejected() {
	token, user := s.signup("anna@example.com")

	res := s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id":   user.MainWalletID,
		"category_id": uuid.New(),
		"amount":      "10",
	})
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}

func (s *APISuite) TestStatisticsSummary() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID
	s.addIncome(token, walletID, "1000")
	s.addExpense(token, walletID, "250")

	res := s.request(fiber.MethodGet, "/statistics/summary", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	sum := decodeData[transaction.Summary](s, res)
	s.Equal("1000", sum.TotalIncome.String())
	s.Equal("250", sum.TotalExpenses.String())
	s.Equal("750", sum.NetSavings.String())
	s.Equal("75", sum.SavingsRate.String())
	s.Equal(2, sum.TransactionCount)
}

func (s *APISuite) TestStatisticsCategoryBreakdown() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID

	res := s.request(fiber.MethodPost, "/categories/", token, fiber.Map{"name": "Books"})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	cat := decodeData[CategoryResponse](s, res)

	res = s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id":   walletID,
		"category_id": cat.ID,
		"amount":      "40",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	s.addExpense(token, walletID, "15")

	res = s.request(fiber.MethodGet, "/statistics/categories", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	b := decodeData[transaction.Breakdown](s, res)
	s.Require().Len(b.Expenses, 2)
	s.Equal("Books", b.Expenses[0].Category)
	s.Equal("40", b.Expenses[0].Amount.String())
	s.Equal("Uncategorized", b.Expenses[1].Category)
}

func (s *APISuite) TestStatisticsSeries() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID
	s.addIncome(token, walletID, "100")
	s.addExpense(token, walletID, "30")

	res := s.request(fiber.MethodGet, "/statistics/series", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	series := decodeData[[]transaction.SeriesPoint](s, res)
	s.Require().Len(series, 1)
	s.Equal("100", series[0].Income.String())
	s.Equal("30", series[0].Expense.String())
}
