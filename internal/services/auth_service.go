package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catena/internal/caching"
	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
	tokenIssuer        = "catena-auth"
)

// AuthService issues and validates session tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	Keyfunc(token *jwt.Token) (interface{}, error)
	TokenTTL() time.Duration
	Close()
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	jwtSecret []byte
	tokenTTL  time.Duration
	jwks      *keyfunc.JWKS
	log       *zap.Logger
}

type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// JWKSURL, when set, also accepts tokens signed by keys from that set.
	JWKSURL string
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, opts AuthOptions, log *zap.Logger) (AuthService, error) {
	s := &authService{
		userRepo:  userRepo,
		cacheSvc:  cacheSvc,
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		log:       log,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = 24 * time.Hour
	}

	if opts.JWKSURL != "" {
		jwks, err := keyfunc.Get(opts.JWKSURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshUnknownKID: true,
			RefreshErrorHandler: func(err error) {
				log.Warn("JWKS refresh failed", zap.Error(err))
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load JWKS: %w", err)
		}
		s.jwks = jwks
	}
	return s, nil
}

func (s *authService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, common.NewValidationError("email and password are required")
	}

	limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+email, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		s.log.Warn("login rate limit check failed", zap.Error(err))
	} else if limited {
		return nil, fmt.Errorf("too many login attempts, try again later: %w", common.ErrRateLimited)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}
	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("account is inactive: %w", common.ErrForbidden)
	}

	if err := s.cacheSvc.ResetRateLimit(ctx, "login:"+email); err != nil {
		s.log.Warn("failed to reset login rate limit", zap.Error(err))
	}

	return s.generateToken(user)
}

func (s *authService) generateToken(user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()
	expiresAt := now.Add(s.tokenTTL)

	claims := TokenClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenID:     tokenID,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// Keyfunc resolves the verification key: the shared secret for HMAC tokens,
// the JWKS for anything else when one is configured.
func (s *authService) Keyfunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
		return s.jwtSecret, nil
	}
	if s.jwks != nil {
		return s.jwks.Keyfunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
}

// ValidateToken parses the token and rejects revoked token ids.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, s.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", errors.Join(common.ErrUnauthorized, err))
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", common.ErrUnauthorized)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	if claims.ID != "" {
		revoked, err := s.cacheSvc.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			s.log.Warn("token revocation check failed", zap.Error(err))
		} else if revoked {
			return nil, fmt.Errorf("token has been revoked: %w", common.ErrUnauthorized)
		}
	}
	return claims, nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.cacheSvc.RevokeToken(ctx, claims.ID, ttl)
}

func (s *authService) Close() {
	if s.jwks != nil {
		s.jwks.EndBackground()
	}
}
