package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mlisik/walletd/pkg/service/wallet"
)

func (s *APISuite) createWallet(token, name string) WalletResponse {
	res := s.request(fiber.MethodPost, "/wallets/", token, fiber.Map{
		"name":     name,
		"type":     "personal",
		"currency": "PLN",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	return decodeData[WalletResponse](s, res)
}

func (s *APISuite) addIncome(token string, walletID uuid.UUID, amount string) TransactionResponse {
	res := s.request(fiber.MethodPost, "/transactions/incomes", token, fiber.Map{
		"wallet_id": walletID,
		"amount":    amount,
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	return decodeData[TransactionResponse](s, res)
}

func (s *APISuite) addExpense(token string, walletID uuid.UUID, amount string) TransactionResponse {
	res := s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id": walletID,
		"amount":    amount,
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	return decodeData[TransactionResponse](s, res)
}

func (s *APISuite) balance(token string, walletID uuid.UUID) wallet.Balance {
	res := s.request(fiber.MethodGet, "/wallets/"+walletID.String()+"/balance", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	return decodeData[wallet.Balance](s, res)
}

func (s *APISuite) TestBalanceFromTransactionLog() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID

	s.addIncome(token, walletID, "1000")
	s.Equal("1000", s.balance(token, walletID).CurrentBalance.String())

	t := s.addExpense(token, walletID, "50")
	s.Equal("-50", t.Amount.String())
	s.Equal("950", s.balance(token, walletID).CurrentBalance.String())
}

func (s *APISuite) TestManualBalanceCheckpoint() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID

	s.addIncome(token, walletID, "1000")
	s.addExpense(token, walletID, "50")

	res := s.request(fiber.MethodPut, "/wallets/"+walletID.String()+"/balance", token, fiber.Map{
		"balance": "500",
	})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	// Pre-checkpoint entries no longer count.
	s.Equal("500", s.balance(token, walletID).CurrentBalance.String())

	s.addExpense(token, walletID, "20")
	b := s.balance(token, walletID)
	s.Equal("480", b.CurrentBalance.String())
	s.Require().NotNil(b.ManualBalance)
	s.Equal("500", b.ManualBalance.String())
	s.NotNil(b.BalanceResetAt)
}

func (s *APISuite) TestBackdatedTransactionBeforeCheckpointIgnored() {
	token, user := s.signup("anna@example.com")
	walletID := *user.MainWalletID

	res := s.request(fiber.MethodPut, "/wallets/"+walletID.String()+"/balance", token, fiber.Map{
		"balance": "100",
	})
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodPost, "/transactions/expenses", token, fiber.Map{
		"wallet_id":   walletID,
		"amount":      "30",
		"occurred_at": time.Now().Add(-48 * time.Hour).Format(time.RFC3339),
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	s.Equal("100", s.balance(token, walletID).CurrentBalance.String())
}

func (s *APISuite) TestSharedWalletBalanceVisibleEntriesPrivate() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")
	walletID := *owner.MainWalletID

	s.addIncome(ownerToken, walletID, "1000")

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	s.addIncome(memberToken, walletID, "200")

	// Both participants reconstruct the same balance.
	s.Equal("1200", s.balance(ownerToken, walletID).CurrentBalance.String())
	s.Equal("1200", s.balance(memberToken, walletID).CurrentBalance.String())

	// Transaction listings stay private to their author, even the
	// per-wallet feed of a shared wallet.
	res = s.request(fiber.MethodGet, "/transactions/", ownerToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Len(decodeData[[]TransactionResponse](s, res), 1)

	res = s.request(fiber.MethodGet, "/transactions/", memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Len(decodeData[[]TransactionResponse](s, res), 1)

	res = s.request(fiber.MethodGet, "/wallets/"+walletID.String()+"/transactions", memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	feed := decodeData[[]TransactionResponse](s, res)
	s.Require().Len(feed, 1)
	s.Equal("200", feed[0].Amount.String())
}

func (s *APISuite) TestWalletAccessDenied() {
	_, owner := s.signup("owner@example.com")
	strangerToken, _ := s.signup("stranger@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodGet, "/wallets/"+walletID.String(), strangerToken, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/"+walletID.String()+"/balance", strangerToken, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)

	res = s.request(fiber.MethodPost, "/transactions/incomes", strangerToken, fiber.Map{
		"wallet_id": walletID,
		"amount":    "100",
	})
	s.Equal(fiber.StatusForbidden, res.StatusCode)
}

func (s *APISuite) TestMembershipDoesNotGrantOwnership() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodPut, "/wallets/"+walletID.String(), memberToken, fiber.Map{
		"name":     "Hijacked",
		"currency": "PLN",
	})
	s.Equal(fiber.StatusForbidden, res.StatusCode)

	res = s.request(fiber.MethodDelete, "/wallets/"+walletID.String(), memberToken, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)

	res = s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", memberToken, fiber.Map{
		"email": "stranger@example.com",
	})
	s.Equal(fiber.StatusForbidden, res.StatusCode)
}

func (s *APISuite) TestAddMemberTwiceConflicts() {
	ownerToken, owner := s.signup("owner@example.com")
	s.signup("member@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Equal(fiber.StatusConflict, res.StatusCode)
}

func (s *APISuite) TestRemoveMemberRevokesAccess() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, member := s.signup("member@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"user_id": member.ID,
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	s.Equal(fiber.StatusOK, s.request(fiber.MethodGet, "/wallets/"+walletID.String(), memberToken, nil).StatusCode)

	res = s.request(fiber.MethodDelete, "/wallets/"+walletID.String()+"/members/"+member.ID.String(), ownerToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/"+walletID.String(), memberToken, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)
}

func (s *APISuite) TestDeletedAccountDisappearsFromMemberList() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, member := s.signup("member@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"user_id": member.ID,
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	// The member winds their account down: own main wallet, then the account.
	res = s.request(fiber.MethodDelete, "/wallets/"+member.MainWalletID.String(), memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	res = s.request(fiber.MethodDelete, "/user/me", memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/"+walletID.String()+"/members", ownerToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Empty(decodeData[[]MemberResponse](s, res))
}

func (s *APISuite) TestListWalletsIncludesShared() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")

	res := s.request(fiber.MethodPost, "/wallets/"+owner.MainWalletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/", memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	// Own main wallet plus the shared one.
	s.Len(decodeData[[]WalletResponse](s, res), 2)
}

func (s *APISuite) TestDeleteMainWalletRejectedWhileOthersUseIt() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")
	walletID := *owner.MainWalletID

	res := s.request(fiber.MethodPost, "/wallets/"+walletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)
	res = s.request(fiber.MethodPut, "/user/main-wallet/"+walletID.String(), memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodDelete, "/wallets/"+walletID.String(), ownerToken, nil)
	s.Equal(fiber.StatusConflict, res.StatusCode)
}

func (s *APISuite) TestDeleteOwnMainWallet() {
	token, user := s.signup("anna@example.com")

	res := s.request(fiber.MethodDelete, "/wallets/"+user.MainWalletID.String(), token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/user/me", token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)
	s.Nil(decodeData[UserResponse](s, res).MainWalletID)
}

func (s *APISuite) TestDeleteWallet() {
	token, _ := s.signup("anna@example.com")
	w := s.createWallet(token, "Disposable")

	res := s.request(fiber.MethodDelete, "/wallets/"+w.ID.String(), token, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/wallets/"+w.ID.String(), token, nil)
	s.Equal(fiber.StatusNotFound, res.StatusCode)
}

func (s *APISuite) TestSetMainWalletToSharedWallet() {
	ownerToken, owner := s.signup("owner@example.com")
	memberToken, _ := s.signup("member@example.com")

	res := s.request(fiber.MethodPost, "/wallets/"+owner.MainWalletID.String()+"/members", ownerToken, fiber.Map{
		"email": "member@example.com",
	})
	s.Require().Equal(fiber.StatusCreated, res.StatusCode)

	res = s.request(fiber.MethodPut, "/user/main-wallet/"+owner.MainWalletID.String(), memberToken, nil)
	s.Require().Equal(fiber.StatusOK, res.StatusCode)

	res = s.request(fiber.MethodGet, "/user/me", memberToken, nil)
	me := decodeData[UserResponse](s, res)
	s.Require().NotNil(me.MainWalletID)
	s.Equal(*owner.MainWalletID, *me.MainWalletID)
}

func (s *APISuite) TestSetMainWalletRequiresAccess() {
	_, owner := s.signup("owner@example.com")
	strangerToken, _ := s.signup("stranger@example.com")

	res := s.request(fiber.MethodPut, "/user/main-wallet/"+owner.MainWalletID.String(), strangerToken, nil)
	s.Equal(fiber.StatusForbidden, res.StatusCode)
}
