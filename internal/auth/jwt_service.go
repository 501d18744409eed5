package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry is the duration for which dashboard tokens are valid.
const AccessTokenExpiry = 24 * time.Hour

// Claims represents JWT claims.
type Claims struct {
	CardholderID string `json:"cardholder_id"`
	jwt.RegisteredClaims
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Secret returns the signing key, for middleware that verifies tokens itself.
func (s *JWTService) Secret() []byte {
	return s.secret
}

// GenerateAccessToken generates a token for the cardholder.
func (s *JWTService) GenerateAccessToken(cardholderID string, ttl time.Duration) (string, error) {
	if cardholderID == "" {
		return "", errors.New("cardholder id is required")
	}
	if ttl <= 0 {
		ttl = AccessTokenExpiry
	}
	now := s.now()
	claims := &Claims{
		CardholderID: cardholderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cardholderID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a JWT token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.CardholderID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
