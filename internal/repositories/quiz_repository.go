package repositories

import (
	"context"

	"github.com/prottasha123/Quiz-MS/internal/models"
)

type QuizRepository interface {
	// Create persists the quiz together with its nested questions and
	// options as a single unit. A duplicate join code surfaces as a
	// duplicate-key error so callers can regenerate and retry.
	Create(ctx context.Context, quiz *models.Quiz) error

	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error)
	GetByCode(ctx context.Context, code string) (*models.Quiz, error)
	GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, error)

	// GetVisibleForStudent returns active quizzes owned by teachers the
	// student is enrolled with.
	GetVisibleForStudent(ctx context.Context, studentID uint) ([]*models.Quiz, error)

	// ToggleActive flips is_active and returns the new value.
	ToggleActive(ctx context.Context, id uint) (bool, error)

	// Delete removes the quiz row only; children are removed separately,
	// child-to-parent, inside the enclosing transaction.
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository interface {
	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error)
	DeleteOptionsByQuiz(ctx context.Context, quizID uint) error
	DeleteByQuiz(ctx context.Context, quizID uint) error
}
