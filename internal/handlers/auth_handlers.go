package handlers

import (
	"net/http"
	"time"

	"catena/internal/middleware"
	"catena/internal/models"
	"catena/internal/services"
	"catena/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers serves login, logout, registration and the current user.
type AuthHandlers struct {
	authService  services.AuthService
	userService  services.UserService
	secureCookie bool
}

func NewAuthHandlers(authService services.AuthService, userService services.UserService, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		authService:  authService,
		userService:  userService,
		secureCookie: secureCookie,
	}
}

type loginUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

func (h *AuthHandlers) tokenCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  common.ErrorResponse
// @Failure      404   {object}  common.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.tokenCookie(resp.AccessToken, resp.ExpiresAt))
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    loginUser{ID: resp.User.ID, Email: resp.User.Email, Role: resp.User.Role},
	})
}

// Logout clears the cookie. When the request carried a valid token it is
// revoked until it expires. It does not require authentication.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if cookie, err := c.Cookie(middleware.TokenCookie); err == nil && cookie.Value != "" {
		if claims, err := h.authService.ValidateToken(ctx, cookie.Value); err == nil {
			if err := h.authService.Logout(ctx, claims); err != nil {
				logger.FromEcho(c).Warn("failed to revoke token", zap.Error(err))
			}
		}
	}
	c.SetCookie(h.tokenCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user.
func (h *AuthHandlers) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// Register godoc
// @Summary      Register a user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "New user"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  common.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := h.userService.Register(c.Request().Context(), &req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}
