package account

import "context"

// Service is the business logic for the self-service account flow. Register
// and Login return a signed bearer token; update and delete are scoped to
// the authenticated caller's own record.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	UpdateSelf(ctx context.Context, accountID int64, req UpdateRequest) error
	DeleteSelf(ctx context.Context, accountID int64) error

	// OperatorToken exchanges the configured operator credentials for an
	// admin token. Returns ErrInvalidCredentials on mismatch.
	OperatorToken(ctx context.Context, username, password string) (*TokenResponse, error)
}
