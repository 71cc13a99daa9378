package repositories

import (
	"github.com/prottasha123/Quiz-MS/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"` // matches name or email
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type QuizFilters struct {
	TeacherID *uint `json:"teacher_id"`
	IsActive  *bool `json:"is_active"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

type AttemptFilters struct {
	QuizID    *uint `json:"quiz_id"`
	StudentID *uint `json:"student_id"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}
