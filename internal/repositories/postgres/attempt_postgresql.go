package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.Attempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := a.db.WithContext(ctx).First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) GetByStudentAndQuiz(ctx context.Context, studentID, quizID uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := a.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Exists(ctx context.Context, studentID, quizID uint) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).
		Model(&models.Attempt{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *AttemptPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	if err := a.db.WithContext(ctx).
		Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("marks_obtained DESC, attempted_at ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) GetByStudent(ctx context.Context, studentID uint) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	if err := a.db.WithContext(ctx).
		Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("attempted_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.Attempt, error) {
	var attempts []*models.Attempt
	query := a.db.WithContext(ctx).Model(&models.Attempt{})

	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("attempted_at DESC").Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) DeleteByQuiz(ctx context.Context, quizID uint) error {
	return a.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&models.Attempt{}).Error
}

func (a *AttemptPostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) error {
	return a.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Attempt{}).Error
}
