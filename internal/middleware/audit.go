package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"catena/internal/common"
	"catena/internal/models"
	"catena/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditMiddleware records mutating requests to the audit log
type AuditMiddleware struct {
	auditService services.AuditLogsService
	log          *zap.Logger
}

func NewAuditMiddleware(auditService services.AuditLogsService, log *zap.Logger) *AuditMiddleware {
	return &AuditMiddleware{
		auditService: auditService,
		log:          log,
	}
}

func shouldAudit(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// AuditRequest writes one entry per mutating request after the handler ran.
// A failed write is logged and never affects the response.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			req := c.Request()
			if !shouldAudit(req.Method) {
				return err
			}

			status := c.Response().Status
			var he *echo.HTTPError
			switch {
			case errors.As(err, &he):
				status = he.Code
			case err != nil:
				status, _ = common.Classify(err)
			}

			entry := &models.AuditLog{
				Action:     req.Method + " " + c.Path(),
				Path:       req.URL.Path,
				StatusCode: status,
				IP:         c.RealIP(),
			}
			if userID, ok := common.GetUserIDFromContext(req.Context()); ok {
				entry.ActorID = &userID
			}

			// the request context may already be cancelled
			ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), 2*time.Second)
			defer cancel()
			if logErr := m.auditService.LogRequest(ctx, entry); logErr != nil {
				m.log.Warn("failed to write audit log", zap.String("action", entry.Action), zap.Error(logErr))
			}
			return err
		}
	}
}
