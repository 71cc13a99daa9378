package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type UserHandler struct {
	BaseHandler
}

func NewUserHandler(base BaseHandler) *UserHandler {
	return &UserHandler{BaseHandler: base}
}

func (h *UserHandler) SignUp(c *gin.Context) {
	var req validator.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "account created", Data: user})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.services.User.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "login successful", Data: user})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user := h.currentUser(c)
	c.JSON(http.StatusOK, SuccessResponse{Data: user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req validator.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), h.currentUser(c).ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "profile updated", Data: user})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	role := models.UserRole(c.DefaultQuery("role", string(models.RoleStudent)))

	users, err := h.services.User.ListByRole(c.Request.Context(), role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: users})
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := h.parseIDParam(c, "userID")
	if !ok {
		return
	}
	var req validator.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.services.User.UpdateRole(c.Request.Context(), h.currentUser(c).ID, userID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "role updated", Data: user})
}

func (h *UserHandler) RemoveUser(c *gin.Context) {
	userID, ok := h.parseIDParam(c, "userID")
	if !ok {
		return
	}

	if err := h.services.User.RemoveUser(c.Request.Context(), h.currentUser(c).ID, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "user removed"})
}
