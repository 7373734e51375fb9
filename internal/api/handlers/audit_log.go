package handlers

import (
	"net/http"
	"strconv"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

type AuditLogHandler struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditLogHandler(auditRepo repository.AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{auditRepo: auditRepo}
}

// ListForTeacher godoc
// @Summary List a teacher's audit history (Admin only)
// @Description Newest first. Entries outlive deactivation of the teacher.
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Teacher user ID"
// @Param action query []string false "Filter by action" collectionFormat(multi)
// @Param limit query int false "Limit results (default: 50, max: 500)"
// @Param offset query int false "Offset results (default: 0)"
// @Success 200 {array} models.AuditLog
// @Failure 400 {object} models.ErrorResponse "Invalid pagination"
// @Router /teachers/{userId}/audit-logs [get]
func (h *AuditLogHandler) ListForTeacher(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultAuditLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
		return
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid offset"})
		return
	}

	filter := repository.AuditLogFilter{Limit: &limit, Offset: &offset}
	for _, a := range c.QueryArray("action") {
		filter.Actions = append(filter.Actions, models.AuditAction(a))
	}

	logs, err := h.auditRepo.GetByUserID(c.Request.Context(), c.Param("userId"), filter)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
