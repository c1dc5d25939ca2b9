package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenTTL is the access token lifetime.
const AccessTokenTTL = 8 * time.Hour

// tokenLeeway tolerates small clock skew during validation.
const tokenLeeway = 30 * time.Second

// ErrInvalidToken is returned when token validation fails.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims carries the principal identity inside the token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// TokenService signs and validates HS256 bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs an access token for the user.
func (s *TokenService) Issue(user *User) (string, error) {
	if user == nil || user.ID.String() == "" {
		return "", errors.New("auth: user required")
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		Username: user.Username,
		Role:     user.RoleName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a raw token and returns its claims.
func (s *TokenService) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithLeeway(tokenLeeway), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
