package repositories

import (
	"context"

	"github.com/prottasha123/Quiz-MS/internal/models"
)

type EnrollmentRepository interface {
	// Create inserts the pair; a repeat insert surfaces as a duplicate-key
	// error via the (student_id, teacher_id) unique index.
	Create(ctx context.Context, enrollment *models.Enrollment) error

	// Delete removes the pair and reports how many rows were affected;
	// deleting an absent pair is not an error.
	Delete(ctx context.Context, studentID, teacherID uint) (int64, error)

	Exists(ctx context.Context, studentID, teacherID uint) (bool, error)
	GetStudents(ctx context.Context, teacherID uint) ([]*models.Enrollment, error)
	GetTeachers(ctx context.Context, studentID uint) ([]*models.Enrollment, error)

	// DeleteByUser removes every enrollment the user participates in,
	// on either side of the relation.
	DeleteByUser(ctx context.Context, userID uint) error
}
