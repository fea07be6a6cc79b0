package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator may change the access log format at runtime.
const RoleOperator = "operator"

type Claims struct {
	Subject string
	Role    string
}

type jwtClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies admin API tokens.
type TokenService interface {
	Sign(subject string, role string) (string, error)
	Verify(token string) (Claims, error)
}

var (
	ErrEmptySecret  = errors.New("auth: jwt secret is empty")
	ErrEmptyIssuer  = errors.New("auth: jwt issuer is empty")
	ErrInvalidTTL   = errors.New("auth: jwt ttl must be > 0")
	ErrEmptySubject = errors.New("auth: empty subject")
)

func NewHS256Service(secret, issuer string, ttl time.Duration) (TokenService, error) {
	switch {
	case secret == "":
		return nil, ErrEmptySecret
	case issuer == "":
		return nil, ErrEmptyIssuer
	case ttl <= 0:
		return nil, ErrInvalidTTL
	}
	return &hs256Service{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}
