// Package auth implements registration, credential verification and token
// issuance. Registration is the one place in the system that needs
// multi-statement atomicity: a user, their Main Wallet and the pointer
// between them are written all-or-nothing.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mlisik/walletd/pkg/config"
	"github.com/mlisik/walletd/pkg/domain"
	"github.com/mlisik/walletd/pkg/repository"
)

// dummyHash keeps the bcrypt cost of a failed lookup indistinguishable
// from a failed password check.
const dummyHash = "$2a$14$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// TokenPair is what login and refresh hand back: a short-lived signed
// access token and an opaque refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Register creates the user, their zero-balance "Main Wallet" and the
// MainWalletID pointer in a single transaction. Any failure rolls all
// three back.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := s.logger.With("context", "Register", "email", domain.NormalizeEmail(email))
	log.Debug("Register called")

	u, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Users().GetByEmail(ctx, u.Email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := uow.Users().Create(ctx, u); err != nil {
			return err
		}
		w := domain.NewWallet(u.ID, "Main Wallet", domain.WalletPersonal, "PLN", decimal.Zero)
		if err := uow.Wallets().Create(ctx, w); err != nil {
			return err
		}
		u.MainWalletID = &w.ID
		return uow.Users().Update(ctx, u)
	})
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	log.Info("Register successful", "userID", u.ID)
	return u, nil
}

// Login verifies the password and rotates the refresh token. The bcrypt
// check runs even when the email is unknown so response timing does not
// reveal which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	log := s.logger.With("context", "Login")
	log.Debug("Login called")

	var pair *TokenPair
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err := uow.Users().GetByEmail(ctx, email)
		if err != nil {
			domain.CheckPasswordHash(password, dummyHash)
			return domain.ErrUnauthorized
		}
		if !domain.CheckPasswordHash(password, u.HashedPassword) {
			return domain.ErrUnauthorized
		}
		now := time.Now().UTC()
		u.LastLoginAt = &now
		pair, err = s.rotateTokens(ctx, uow, u)
		return err
	})
	if err != nil {
		log.Error("Login failed", "error", err)
		return nil, err
	}
	log.Info("Login successful")
	return pair, nil
}

// Refresh exchanges an expired access token plus a live refresh token for
// a new pair. The access token's signature must verify, its expiry is
// deliberately ignored; the refresh token must match the stored one and
// still be within its window. Rotation invalidates the old refresh token
// by overwrite, so this call must not be retried blindly.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenPair, error) {
	log := s.logger.With("context", "Refresh")
	log.Debug("Refresh called")

	userID, err := s.parseAccessToken(accessToken, true)
	if err != nil {
		log.Error("Refresh failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	var pair *TokenPair
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err := uow.Users().Get(ctx, userID)
		if err != nil {
			return domain.ErrUnauthorized
		}
		if u.RefreshToken == "" || u.RefreshToken != refreshToken {
			return domain.ErrUnauthorized
		}
		if u.RefreshTokenExpires == nil || !u.RefreshTokenExpires.After(time.Now().UTC()) {
			return domain.ErrUnauthorized
		}
		pair, err = s.rotateTokens(ctx, uow, u)
		return err
	})
	if err != nil {
		log.Error("Refresh failed", "userID", userID, "error", err)
		return nil, err
	}
	log.Info("Refresh successful", "userID", userID)
	return pair, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error {
	log := s.logger.With("context", "ChangePassword", "userID", userID)
	log.Debug("ChangePassword called")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		u, err := uow.Users().Get(ctx, userID)
		if err != nil {
			return err
		}
		if !domain.CheckPasswordHash(current, u.HashedPassword) {
			return domain.ErrUnauthorized
		}
		hashed, err := domain.HashPassword(updated)
		if err != nil {
			return err
		}
		u.HashedPassword = hashed
		return uow.Users().Update(ctx, u)
	})
	if err != nil {
		log.Error("ChangePassword failed", "error", err)
		return err
	}
	log.Info("ChangePassword successful")
	return nil
}

// GetUser loads the caller's own profile.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u *domain.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		var err error
		u, err = uow.Users().Get(ctx, userID)
		return err
	})
	return u, err
}

// DeleteUser removes a user who no longer owns any wallets. Memberships
// in foreign wallets are removed; the wallets themselves are untouched.
func (s *Service) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	log := s.logger.With("context", "DeleteUser", "userID", userID)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		owned, err := uow.Wallets().CountOwnedBy(ctx, userID)
		if err != nil {
			return err
		}
		if owned > 0 {
			return domain.ErrUserOwnsWallets
		}
		return uow.Users().Delete(ctx, userID)
	})
	if err != nil {
		log.Error("DeleteUser failed", "error", err)
		return err
	}
	log.Info("DeleteUser successful")
	return nil
}

// GenerateAccessToken signs a short-lived token carrying the user id as
// its sole identity claim.
func (s *Service) GenerateAccessToken(userID uuid.UUID) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userID.String()
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	return token.SignedString([]byte(s.cfg.Secret))
}

// CurrentUserID extracts the user id claim from an already-verified token
// (as stored in the request context by the JWT middleware).
func (s *Service) CurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

func (s *Service) parseAccessToken(tokenString string, ignoreExpiry bool) (uuid.UUID, error) {
	var opts []jwt.ParserOption
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if ignoreExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	return s.CurrentUserID(token)
}

func (s *Service) rotateTokens(ctx context.Context, uow repository.UnitOfWork, u *domain.User) (*TokenPair, error) {
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().UTC().Add(s.cfg.RefreshExpiry)
	u.RefreshToken = refresh
	u.RefreshTokenExpires = &expires
	if err := uow.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	access, err := s.GenerateAccessToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
