package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	claims map[string]*services.TokenClaims
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	return nil, common.ErrUnauthorized
}

func (s *stubAuth) ValidateToken(ctx context.Context, token string) (*services.TokenClaims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, common.ErrUnauthorized
}

func (s *stubAuth) Logout(ctx context.Context, claims *services.TokenClaims) error { return nil }
func (s *stubAuth) Keyfunc(token *jwt.Token) (interface{}, error)                 { return nil, nil }
func (s *stubAuth) TokenTTL() time.Duration                                       { return time.Hour }
func (s *stubAuth) Close()                                                        {}

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, common.NotFound("User")
}

func newAuthServer(auth services.AuthService, users UserLoader) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", JWTMiddleware(auth, users), RequireUser)
	g.GET("/auth/me", func(c echo.Context) error {
		id, _ := common.GetUserIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, id.String())
	})
	return e
}

func TestJWTMiddleware(t *testing.T) {
	known := &models.User{ID: uuid.New(), Role: models.RoleUser}
	ghost := uuid.New()
	auth := &stubAuth{claims: map[string]*services.TokenClaims{
		"good":  {UserID: known.ID.String(), Role: known.Role, RegisteredClaims: jwt.RegisteredClaims{ID: "t1"}},
		"ghost": {UserID: ghost.String(), RegisteredClaims: jwt.RegisteredClaims{ID: "t2"}},
	}}
	e := newAuthServer(auth, stubUsers{known.ID: known})

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "good"}) }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"invalid", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"unknown user", func(r *http.Request) { r.Header.Set("Authorization", "Bearer ghost") }, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, known.ID.String(), rec.Body.String())
			}
		})
	}
}
