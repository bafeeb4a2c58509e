package middleware

import (
	"context"
	"errors"
	"net/http"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	// TokenCookie carries the session token set at login.
	TokenCookie = "token"

	userContextKey   = "user"
	claimsContextKey = "claims"
)

// UserLoader loads the user a token belongs to.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTMiddleware authenticates a request from the token cookie or a Bearer
// header, rejects revoked tokens and unknown users, and puts the user in the
// request context.
func JWTMiddleware(authSvc services.AuthService, users UserLoader) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + TokenCookie + ",header:Authorization:Bearer ",
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authSvc.ValidateToken(c.Request().Context(), auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims, _ := c.Get(claimsContextKey).(*services.TokenClaims)
			if claims == nil {
				return
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return
			}
			user, err := users.GetByID(c.Request().Context(), userID)
			if err != nil {
				return
			}
			SetCurrentUser(c, user, claims.ID)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, echojwt.ErrJWTMissing) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		},
	})
}

// RequireUser rejects requests whose token was valid but whose user could not
// be loaded. It runs right after JWTMiddleware.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
		}
		return next(c)
	}
}

// SetCurrentUser attaches user to both the echo context and the request context.
func SetCurrentUser(c echo.Context, user *models.User, tokenID string) {
	ctx := common.WithUser(c.Request().Context(), user.ID, user.Role, tokenID)
	c.SetRequest(c.Request().WithContext(ctx))
	c.Set(userContextKey, user)
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// CurrentClaims returns the validated token claims, or nil.
func CurrentClaims(c echo.Context) *services.TokenClaims {
	claims, _ := c.Get(claimsContextKey).(*services.TokenClaims)
	return claims
}
