package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type AttemptHandler struct {
	BaseHandler
}

func NewAttemptHandler(base BaseHandler) *AttemptHandler {
	return &AttemptHandler{BaseHandler: base}
}

func (h *AttemptHandler) TakeQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}

	view, err := h.services.Attempt.TakeQuiz(c.Request.Context(), h.currentUser(c).ID, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: view})
}

func (h *AttemptHandler) SubmitQuiz(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	var req validator.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.services.Attempt.SubmitQuiz(c.Request.Context(), h.currentUser(c).ID, quizID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SuccessResponse{Message: "quiz submitted", Data: result})
}

func (h *AttemptHandler) MyResults(c *gin.Context) {
	results, err := h.services.Attempt.GetStudentResults(c.Request.Context(), h.currentUser(c).ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: results})
}

func (h *AttemptHandler) QuizResults(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	user := h.currentUser(c)

	results, err := h.services.Attempt.GetQuizResults(c.Request.Context(), user.ID, user.Role, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: results})
}

func (h *AttemptHandler) ExportQuizResults(c *gin.Context) {
	quizID, ok := h.parseIDParam(c, "quizID")
	if !ok {
		return
	}
	user := h.currentUser(c)

	data, name, err := h.services.Export.ExportQuizResults(c.Request.Context(), user.ID, user.Role, quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
