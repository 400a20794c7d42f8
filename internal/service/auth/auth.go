package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acucaradas/delivery-tracking-system/internal/domain/models"
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/logger"
	wrap "github.com/acucaradas/delivery-tracking-system/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// TokenService validates the HS256 access tokens minted by the identity
// service. This subsystem never issues tokens, it only checks them: the
// console and courier apps arrive with a token from the login flow.
type TokenService struct {
	secret string
	log    logger.Logger
}

func NewTokenService(secret string, log logger.Logger) *TokenService {
	return &TokenService{secret: secret, log: log}
}

// RoleCheck validates the token and materializes the bearer as a User.
func (s *TokenService) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "role_check")

	claims, err := s.validate(token)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'user_id' claim: %w", err))
	}

	role := types.UserRole(claims.Role)
	if !role.Valid() {
		return nil, wrap.Error(ctx, fmt.Errorf("unknown role %q in token", claims.Role))
	}

	return &models.User{
		ID:    userID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  role.String(),
	}, nil
}

type accessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func (s *TokenService) validate(token string) (*accessClaims, error) {
	claims := &accessClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Mint issues a short-lived token. Kept for local development and the
// integration test harness; production tokens come from the identity
// service.
func (s *TokenService) Mint(user *models.User, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		UserID: user.ID.String(),
		Role:   string(user.Role),
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}
