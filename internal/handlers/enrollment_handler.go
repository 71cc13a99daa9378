package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
}

func NewEnrollmentHandler(base BaseHandler) *EnrollmentHandler {
	return &EnrollmentHandler{BaseHandler: base}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req validator.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.services.Enrollment.Enroll(c.Request.Context(), h.currentUser(c).ID, req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "enrolled"})
}

func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	teacherID, ok := h.parseIDParam(c, "teacherID")
	if !ok {
		return
	}

	if err := h.services.Enrollment.Unenroll(c.Request.Context(), h.currentUser(c).ID, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "unenrolled"})
}

func (h *EnrollmentHandler) ListMyTeachers(c *gin.Context) {
	teachers, err := h.services.Enrollment.ListTeachers(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: teachers})
}

func (h *EnrollmentHandler) ListAvailableTeachers(c *gin.Context) {
	teachers, err := h.services.Enrollment.ListAvailableTeachers(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: teachers})
}

func (h *EnrollmentHandler) ListMyStudents(c *gin.Context) {
	students, err := h.services.Enrollment.ListStudents(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: students})
}
