package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Classified verification outcomes. Callers distinguish an expired token
// (prompt re-login) from any other invalid token (re-authenticate), and both
// from a fault inside verification itself, which is not the caller's error.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims carries the identity embedded in a signed token.
type Claims struct {
	UserID   int64  `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a process-wide secret. The secret
// is injected at construction so it can be rotated or overridden in tests.
type Manager struct {
	secret []byte
	expiry time.Duration
}

func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry}
}

// GenerateUserToken issues a token for a registered account.
func (m *Manager) GenerateUserToken(userID int64, email string) (string, error) {
	return m.sign(Claims{UserID: userID, Email: email})
}

// GenerateOperatorToken issues a token for the operator login, which carries
// a username instead of an account id.
func (m *Manager) GenerateOperatorToken(username string) (string, error) {
	return m.sign(Claims{Username: username})
}

func (m *Manager) sign(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims. Errors are
// classified: ErrTokenExpired, ErrTokenInvalid, or anything else for a
// failure inside verification that is not attributable to the token.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return nil, ErrTokenInvalid
	case err != nil:
		return nil, fmt.Errorf("verify token: %w", err)
	default:
		return nil, ErrTokenInvalid
	}
}
