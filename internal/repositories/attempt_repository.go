package repositories

import (
	"context"

	"github.com/prottasha123/Quiz-MS/internal/models"
)

type AttemptRepository interface {
	// Create inserts the attempt; the (student_id, quiz_id) unique index
	// rejects a second attempt with a duplicate-key error.
	Create(ctx context.Context, attempt *models.Attempt) error

	GetByID(ctx context.Context, id uint) (*models.Attempt, error)
	GetByStudentAndQuiz(ctx context.Context, studentID, quizID uint) (*models.Attempt, error)
	Exists(ctx context.Context, studentID, quizID uint) (bool, error)

	GetByQuiz(ctx context.Context, quizID uint) ([]*models.Attempt, error)
	GetByStudent(ctx context.Context, studentID uint) ([]*models.Attempt, error)
	List(ctx context.Context, filters AttemptFilters) ([]*models.Attempt, error)

	DeleteByQuiz(ctx context.Context, quizID uint) error
	DeleteByStudent(ctx context.Context, studentID uint) error
}
