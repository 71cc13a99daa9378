package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return e.db.WithContext(ctx).Create(enrollment).Error
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, studentID, teacherID uint) (int64, error) {
	res := e.db.WithContext(ctx).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		Delete(&models.Enrollment{})
	return res.RowsAffected, res.Error
}

func (e *EnrollmentPostgreSQL) Exists(ctx context.Context, studentID, teacherID uint) (bool, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND teacher_id = ?", studentID, teacherID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *EnrollmentPostgreSQL) GetStudents(ctx context.Context, teacherID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := e.db.WithContext(ctx).
		Preload("Student").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) GetTeachers(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := e.db.WithContext(ctx).
		Preload("Teacher").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) DeleteByUser(ctx context.Context, userID uint) error {
	return e.db.WithContext(ctx).
		Where("student_id = ? OR teacher_id = ?", userID, userID).
		Delete(&models.Enrollment{}).Error
}
