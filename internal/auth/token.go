package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whale-spotting/whale_spotting/internal/config"
	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/identity"
)

// Claims is the identity data embedded in a bearer token. Everything the
// middleware needs is derivable from a valid token alone; no store lookup
// happens on validation.
type Claims struct {
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed bearer tokens. The key, issuer,
// audience, and skew window are fixed at construction; validation is a pure
// function of the token and the clock.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// NewTokenService builds a token service from the process configuration.
func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      cfg.TokenTTL,
		leeway:   cfg.ClockSkew,
		now:      time.Now,
	}
}

// Issue signs a token for the user carrying subject, role, issuer, audience,
// and expiry. Returns the compact token and its expiry time.
func (s *TokenService) Issue(user identity.User) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)

	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate parses the token and enforces signature, expiry, issuer, and
// audience. All failures map to domain.ErrUnauthenticated with a message
// that names the reason but leaks nothing about the key.
func (s *TokenService) Validate(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithLeeway(s.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, fmt.Errorf("%w: token expired", domain.ErrUnauthenticated)
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return Claims{}, fmt.Errorf("%w: wrong issuer", domain.ErrUnauthenticated)
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return Claims{}, fmt.Errorf("%w: wrong audience", domain.ErrUnauthenticated)
		default:
			return Claims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
		}
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}
	return claims, nil
}
