package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type QuizHandler struct {
	BaseHandler
}

func NewQuizHandler(base BaseHandler) *QuizHandler {
	return &QuizHandler{BaseHandler: base}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req validator.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quiz, err := h.services.Quiz.CreateQuiz(c.Request.Context(), h.currentUser(c).ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "quiz created", Data: quiz})
}

func (h *QuizHandler) ListMyQuizzes(c *gin.Context) {
	quizzes, err := h.services.Quiz.ListTeacherQuizzes(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: quizzes})
}

func (h *QuizHandler) ListVisibleQuizzes(c *gin.Context) {
	quizzes, err := h.services.Quiz.ListVisibleQuizzes(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: quizzes})
}

func (h *QuizHandler) GetQuizDetail(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	user := h.currentUser(c)

	quiz, err := h.services.Quiz.GetQuizDetail(c.Request.Context(), user.ID, user.Role, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: quiz})
}

func (h *QuizHandler) JoinByCode(c *gin.Context) {
	var req validator.JoinQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quiz, err := h.services.Quiz.JoinByCode(c.Request.Context(), h.currentUser(c).ID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "quiz joined", Data: quiz})
}

func (h *QuizHandler) ToggleQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	user := h.currentUser(c)

	active, err := h.services.Quiz.ToggleQuiz(c.Request.Context(), user.ID, user.Role, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "quiz toggled", Data: gin.H{"is_active": active}})
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	user := h.currentUser(c)

	if err := h.services.Quiz.DeleteQuiz(c.Request.Context(), user.ID, user.Role, quizID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "quiz deleted"})
}
