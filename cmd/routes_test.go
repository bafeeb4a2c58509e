package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"catena/internal/handlers"
)

func newRouter() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	e.Validator = handlers.NewRequestValidator()
	api := e.Group("/api")
	registerJobRoutes(api, handlers.NewJobHandlers(nil))
	registerDocumentRoutes(api, handlers.NewDocumentHandlers(nil))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJobAttachmentUploadRouteIsCurrent(t *testing.T) {
	e := newRouter()

	// an empty body fails validation before the service is reached
	for _, target := range []string{"/api/jobs/signed-url-gcs", "/api/jobs/signed-url"} {
		rec := serve(e, http.MethodPost, target, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Empty(t, rec.Header().Get("Deprecation"), target)
		assert.Empty(t, rec.Header().Get("Link"), target)
	}
}

func TestBrandTreasuryAliasesAreDeprecated(t *testing.T) {
	e := newRouter()

	rec := serve(e, http.MethodPut, "/api/brand-treasury/abc", `{}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Deprecation"))
	assert.Equal(t, `</api/upload>; rel="successor-version"`, rec.Header().Get("Link"))
}
