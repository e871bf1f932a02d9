package account

import "context"

// Repository is the data access contract for accounts.
type Repository interface {
	// Create stores a new account and returns the assigned id. Returns
	// ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, a *Account) (int64, error)

	// FindByEmail returns ErrAccountNotFound when no account holds email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// UpdateProfile replaces the non-nil fields of the account with id.
	// Returns ErrAccountNotFound when the id does not exist.
	UpdateProfile(ctx context.Context, id int64, name, passwordHash *string) error

	// Delete removes the account with id. Returns ErrAccountNotFound when
	// the id does not exist.
	Delete(ctx context.Context, id int64) error

	// ExistsByEmail reports whether an account with email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
