// Package jwt issues and validates the HMAC-signed bearer tokens that
// identify a user on the recommendations endpoints.
package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
}

// HMACService signs access and refresh tokens with separate HS256 secrets.
type HMACService struct {
	access  tokenKind
	refresh tokenKind
	now     func() time.Time
}

type tokenKind struct {
	secret []byte
	ttl    time.Duration
}

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		access:  tokenKind{secret: []byte(accessSecret), ttl: accessExpiresIn},
		refresh: tokenKind{secret: []byte(refreshSecret), ttl: refreshExpiresIn},
		now:     time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.sign(TokenTypeAccess, s.access, userID, email)
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(TokenTypeRefresh, s.refresh, userID, "")
}

func (s *HMACService) sign(tokenType string, kind tokenKind, userID uuid.UUID, email string) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(kind.ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(kind.secret)
}

// ValidateToken tries the access secret first, then the refresh secret, so
// one entry point verifies either token kind.
func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	claims, accessErr := parse(tokenString, s.access.secret)
	if accessErr == nil {
		return claims, nil
	}

	claims, refreshErr := parse(tokenString, s.refresh.secret)
	if refreshErr == nil {
		return claims, nil
	}

	if errors.Is(accessErr, ErrTokenExpired) || errors.Is(refreshErr, ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	return Claims{}, ErrTokenInvalid
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func parse(tokenString string, secret []byte) (Claims, error) {
	parser := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var claims Claims
	tok, err := parser.ParseWithClaims(tokenString, &claims, func(*jwtlib.Token) (any, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil, tok == nil, !tok.Valid:
		return Claims{}, ErrTokenInvalid
	}

	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
