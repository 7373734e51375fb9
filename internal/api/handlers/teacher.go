package handlers

import (
	"errors"
	"net/http"
	"teacherpin/internal/auth"
	"teacherpin/internal/models"

	"github.com/gin-gonic/gin"
)

type TeacherHandler struct {
	authService *auth.Service
}

func NewTeacherHandler(authService *auth.Service) *TeacherHandler {
	return &TeacherHandler{authService: authService}
}

// internalError hides the cause from the client; it is kept on the context
// for the request logger
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
}

// Register godoc
// @Summary Register a teacher
// @Description Creates a teacher with a 6 digit PIN. The PIN expires after 90 days.
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body models.RegisterTeacherRequest true "Teacher details"
// @Success 201 {object} models.Teacher
// @Failure 400 {object} models.ErrorResponse "Invalid request or PIN format"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /teachers [post]
func (h *TeacherHandler) Register(c *gin.Context) {
	var req models.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	teacher, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Pin)
	if err != nil {
		var formatErr *auth.FormatError
		switch {
		case errors.As(err, &formatErr):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: auth.ErrInvalidFormat.Error(), Errors: formatErr.Errors})
		case errors.Is(err, auth.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// GetTeacher godoc
// @Summary Get a teacher
// @Tags teachers
// @Produce json
// @Param userId path string true "Teacher user ID"
// @Success 200 {object} models.Teacher
// @Failure 404 {object} models.ErrorResponse "Teacher not found"
// @Router /teachers/{userId} [get]
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	teacher, err := h.authService.GetTeacher(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// ValidatePin godoc
// @Summary Validate a teacher's PIN
// @Description Every business outcome (success, locked, expired, invalid format, wrong PIN) is a 200
// @Description with the status field set; only an unknown teacher is a 404.
// @Tags pin
// @Accept json
// @Produce json
// @Param userId path string true "Teacher user ID"
// @Param request body models.ValidatePinRequest true "PIN attempt"
// @Success 200 {object} auth.ValidationResult
// @Failure 404 {object} auth.ValidationResult "Teacher not found"
// @Router /teachers/{userId}/pin/validate [post]
func (h *TeacherHandler) ValidatePin(c *gin.Context) {
	var req models.ValidatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.authService.ValidatePin(c.Request.Context(), c.Param("userId"), req.Pin)
	if err != nil {
		internalError(c, err)
		return
	}

	status := http.StatusOK
	if result.Status == auth.StatusNotFound {
		status = http.StatusNotFound
	}
	c.JSON(status, result)
}

// ValidatePinFormat godoc
// @Summary Check PIN syntax
// @Description Checks a PIN against the format policy without touching any teacher
// @Tags pin
// @Accept json
// @Produce json
// @Param request body models.ValidatePinRequest true "PIN"
// @Success 200 {object} pin.FormatResult
// @Router /pin/validate-format [post]
func (h *TeacherHandler) ValidatePinFormat(c *gin.Context) {
	var req models.ValidatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.authService.ValidatePinFormat(req.Pin))
}

// ResetPin godoc
// @Summary Reset a teacher's PIN (Admin only)
// @Description Sets a new PIN, restarts the 90 day expiry and clears any lockout
// @Tags teachers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Teacher user ID"
// @Param request body models.ResetPinRequest true "New PIN"
// @Success 200 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse "Invalid PIN format"
// @Failure 404 {object} models.ErrorResponse "Teacher not found"
// @Router /teachers/{userId}/pin/reset [post]
func (h *TeacherHandler) ResetPin(c *gin.Context) {
	var req models.ResetPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	ok, err := h.authService.ResetPin(c.Request.Context(), c.Param("userId"), req.NewPin)
	if err != nil {
		var formatErr *auth.FormatError
		switch {
		case errors.As(err, &formatErr):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: auth.ErrInvalidFormat.Error(), Errors: formatErr.Errors})
		case errors.Is(err, auth.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		default:
			internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: ok, Message: "PIN reset"})
}

// Unlock godoc
// @Summary Unlock a teacher account (Admin only)
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Teacher user ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse "Teacher not found"
// @Router /teachers/{userId}/unlock [post]
func (h *TeacherHandler) Unlock(c *gin.Context) {
	ok, err := h.authService.Unlock(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: ok, Message: "account unlocked"})
}

// Deactivate godoc
// @Summary Deactivate a teacher (Admin only)
// @Description Soft delete. The record is kept and its email becomes free for a new registration.
// @Tags teachers
// @Security BearerAuth
// @Param userId path string true "Teacher user ID"
// @Success 204 "No Content"
// @Failure 404 {object} models.ErrorResponse "Teacher not found"
// @Router /teachers/{userId} [delete]
func (h *TeacherHandler) Deactivate(c *gin.Context) {
	if err := h.authService.Deactivate(c.Request.Context(), c.Param("userId")); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
			return
		}
		internalError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
