package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/agenda/internal/models"
)

// SessionUser is the identity carried by a resolved session token. Claims
// are fixed at issuance; a role change only shows up after re-login.
type SessionUser struct {
	ID          uuid.UUID   `json:"id"`
	PhoneNumber string      `json:"phone_number"`
	Role        models.Role `json:"role"`
}

type sessionClaims struct {
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer mints and resolves signed session tokens. Tokens are
// stateless; there is no server-side revocation list.
type SessionIssuer struct {
	secret string
	issuer string
	ttl    time.Duration
}

// NewSessionIssuer constructs a SessionIssuer.
func NewSessionIssuer(secret, issuer string, ttl time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue creates a signed token embedding the user's identity and role.
func (i *SessionIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    i.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.secret))
}

// Resolve verifies the token signature and expiry and returns the embedded
// session identity.
func (i *SessionIssuer) Resolve(tokenString string) (*SessionUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(i.secret), nil
	})
	if err != nil {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &SessionUser{
		ID:          userID,
		PhoneNumber: claims.PhoneNumber,
		Role:        models.Role(claims.Role),
	}, nil
}
