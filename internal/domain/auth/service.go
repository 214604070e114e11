package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/deskly/deskly-api/internal/domain/user"
	"github.com/deskly/deskly-api/internal/pkg/jwt"
	"github.com/deskly/deskly-api/internal/pkg/password"
)

// Service handles authentication.
// Refresh tokens are stored hashed in Redis keyed by jti so they can be
// revoked; with no Redis the refresh flow is stateless JWT only.
type Service struct {
	users user.Repository
	jwt   *jwt.Service
	redis *redis.Client // nil disables refresh revocation
}

// NewService creates auth service
func NewService(users user.Repository, jwtService *jwt.Service, redisClient *redis.Client) *Service {
	return &Service{users: users, jwt: jwtService, redis: redisClient}
}

// Register creates an account and issues tokens
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		IsActive:     true,
	}
	if req.EmployeeID != "" {
		u.EmployeeID = sql.NullString{String: req.EmployeeID, Valid: true}
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.issue(ctx, u)
}

// Login verifies credentials and issues tokens
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issue(ctx, u)
}

// Refresh rotates a refresh token and issues a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	if s.redis != nil {
		stored, err := s.redis.Get(ctx, refreshKey(claims.UserID, claims.ID)).Result()
		if err != nil || stored != jwt.HashRefreshToken(refreshToken) {
			return nil, ErrInvalidRefresh
		}
		// single use: revoke before reissuing
		if err := s.redis.Del(ctx, refreshKey(claims.UserID, claims.ID)).Err(); err != nil {
			log.Warn().Err(err).Msg("failed to revoke refresh token")
		}
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.issue(ctx, u)
}

// Logout revokes the refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil // already unusable
	}
	if s.redis != nil {
		return s.redis.Del(ctx, refreshKey(claims.UserID, claims.ID)).Err()
	}
	return nil
}

// Me returns the requester's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issue(ctx context.Context, u *user.User) (*AuthResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u.ID, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, jti, expiresAt, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if s.redis != nil {
		ttl := time.Until(expiresAt)
		if err := s.redis.Set(ctx, refreshKey(u.ID, jti), jwt.HashRefreshToken(refresh), ttl).Err(); err != nil {
			return nil, fmt.Errorf("store refresh token: %w", err)
		}
	}

	return &AuthResponse{
		User: user.ToProfile(u),
		Tokens: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    int64(s.jwt.GetAccessTTL().Seconds()),
		},
	}, nil
}

func refreshKey(userID uuid.UUID, jti string) string {
	return fmt.Sprintf("refresh:%s:%s", userID, jti)
}
