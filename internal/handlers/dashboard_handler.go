package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	BaseHandler
}

func NewDashboardHandler(base BaseHandler) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base}
}

func (h *DashboardHandler) StudentDashboard(c *gin.Context) {
	dash, err := h.services.Dashboard.ForStudent(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: dash})
}

func (h *DashboardHandler) TeacherDashboard(c *gin.Context) {
	dash, err := h.services.Dashboard.ForTeacher(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: dash})
}

func (h *DashboardHandler) AdminDashboard(c *gin.Context) {
	dash, err := h.services.Dashboard.ForAdmin(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: dash})
}
