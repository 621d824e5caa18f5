package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Every error surfaced by a service wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrNotFound is returned when an entity is absent, or present but
	// deliberately hidden from the caller (another user's transaction
	// or private category).
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is returned when the entity's existence is acknowledged
	// but the action is denied.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned on uniqueness violations.
	ErrConflict = errors.New("resource already exists")
	// ErrUnauthorized is returned for missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
)

var (
	// ErrEmailTaken is returned when registering with an email that is
	// already in use.
	ErrEmailTaken = fmt.Errorf("email already registered: %w", ErrConflict)
	// ErrWalletAccessDenied is returned when the caller is neither the
	// owner nor a member of the wallet.
	ErrWalletAccessDenied = fmt.Errorf("no access to wallet: %w", ErrForbidden)
	// ErrNotWalletOwner is returned when a non-owner attempts an
	// owner-only wallet operation.
	ErrNotWalletOwner = fmt.Errorf("only the wallet owner may do this: %w", ErrForbidden)
	// ErrAlreadyMember is returned when adding a user who is already a
	// wallet member.
	ErrAlreadyMember = fmt.Errorf("user is already a member: %w", ErrConflict)
	// ErrWalletIsMain is returned when deleting a wallet that is still
	// referenced as some user's main wallet.
	ErrWalletIsMain = fmt.Errorf("wallet is referenced as a main wallet: %w", ErrConflict)
	// ErrCategoryTaken is returned when a (name, owner) category pair
	// already exists.
	ErrCategoryTaken = fmt.Errorf("category name already in use: %w", ErrConflict)
	// ErrGlobalCategoryImmutable is returned on attempts to update or
	// delete a global category.
	ErrGlobalCategoryImmutable = fmt.Errorf("global categories cannot be modified: %w", ErrForbidden)
	// ErrZeroAmount is returned when a transaction amount is zero.
	ErrZeroAmount = fmt.Errorf("transaction amount cannot be zero: %w", ErrValidation)
	// ErrUserOwnsWallets is returned when deleting a user who still owns
	// wallets.
	ErrUserOwnsWallets = fmt.Errorf("user still owns wallets: %w", ErrConflict)
)
