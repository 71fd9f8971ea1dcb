// Package security provides access-token issuing and validation
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tokenIssuer   = "recipe-explorer"
	tokenAudience = "recipe-explorer-api"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenType represents different types of JWT tokens
type TokenType string

const AccessToken TokenType = "access"

// Claims represents JWT claims structure
type Claims struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService signs HS256 access tokens
type TokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewTokenService creates a token service
func NewTokenService(secret string, expiration time.Duration, logger *zap.Logger) *TokenService {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
		logger:     logger.Named("token-service"),
	}
}

var _ outbound.TokenService = (*TokenService)(nil)

// Issue creates a new access token
func (s *TokenService) Issue(userID uuid.UUID, username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &Claims{
		UserID:    userID.String(),
		Username:  username,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
			Audience:  []string{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate validates and parses an access token
func (s *TokenService) Validate(tokenString string) (*outbound.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.Debug("Token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != AccessToken || claims.UserID == "" {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.TokenType)
	}

	return &outbound.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
