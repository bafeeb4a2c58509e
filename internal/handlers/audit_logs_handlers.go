package handlers

import (
	"net/http"
	"strconv"

	"catena/internal/common"
	"catena/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditLogsHandlers handles audit logs related HTTP requests
type AuditLogsHandlers struct {
	auditLogsService services.AuditLogsService
}

// NewAuditLogsHandlers creates a new audit logs handlers instance
func NewAuditLogsHandlers(auditLogsService services.AuditLogsService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditLogsService: auditLogsService}
}

// ListAuditLogs godoc
// @Summary      List audit log entries
// @Tags         ops
// @Produce      json
// @Param        actorId  query     string  false  "Only this actor"
// @Param        page     query     int     false  "Page"
// @Param        limit    query     int     false  "Page size"
// @Success      200      {object}  map[string]interface{}
// @Failure      403      {object}  common.ErrorResponse
// @Router       /audit-logs [get]
func (h *AuditLogsHandlers) ListAuditLogs(c echo.Context) error {
	var actorID *uuid.UUID
	if raw := c.QueryParam("actorId"); raw != "" {
		id, err := common.ParseID(raw, "actorId")
		if err != nil {
			return err
		}
		actorID = &id
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	page, limit = common.ValidatePaginationParams(page, limit)

	logs, err := h.auditLogsService.ListAuditLogs(c.Request().Context(), actorID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    logs,
		"page":    page,
		"limit":   limit,
	})
}
