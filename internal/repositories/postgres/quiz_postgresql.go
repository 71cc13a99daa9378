package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/prottasha123/Quiz-MS/internal/cache"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type QuizPostgreSQL struct {
	db          *gorm.DB
	cacheHelper *cache.CacheHelper
}

func NewQuizPostgreSQL(db *gorm.DB, cacheHelper *cache.CacheHelper) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db, cacheHelper: cacheHelper}
}

// Create persists the quiz with its questions and options in one insert via
// gorm's association handling.
func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	return q.db.WithContext(ctx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	cacheKey := q.cacheHelper.Key("details", fmt.Sprintf("%d", id))

	err := q.cacheHelper.CacheOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (any, error) {
		var fresh models.Quiz
		if err := q.db.WithContext(ctx).
			Preload("Questions").
			Preload("Questions.Options").
			First(&fresh, id).Error; err != nil {
			return nil, err
		}
		return &fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByCode(ctx context.Context, code string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).Where("code = ?", code).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := q.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	query := q.db.WithContext(ctx).Model(&models.Quiz{})

	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return quizzes, nil
}

func (q *QuizPostgreSQL) GetVisibleForStudent(ctx context.Context, studentID uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	if err := q.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.teacher_id = quizzes.teacher_id").
		Where("enrollments.student_id = ? AND quizzes.is_active = ?", studentID, true).
		Order("quizzes.created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

// ToggleActive flips is_active in place so concurrent toggles never lose an
// update, then reads the resulting value back.
func (q *QuizPostgreSQL) ToggleActive(ctx context.Context, id uint) (bool, error) {
	res := q.db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		UpdateColumn("is_active", gorm.Expr("NOT is_active"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, gorm.ErrRecordNotFound
	}

	q.invalidate(ctx, id)

	var quiz models.Quiz
	if err := q.db.WithContext(ctx).Select("is_active").First(&quiz, id).Error; err != nil {
		return false, err
	}
	return quiz.IsActive, nil
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	res := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	q.invalidate(ctx, id)
	return nil
}

func (q *QuizPostgreSQL) invalidate(ctx context.Context, id uint) {
	_ = q.cacheHelper.Delete(ctx, q.cacheHelper.Key("details", fmt.Sprintf("%d", id)))
}

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Preload("Options").
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) DeleteOptionsByQuiz(ctx context.Context, quizID uint) error {
	return q.db.WithContext(ctx).
		Where("question_id IN (?)", q.db.Model(&models.Question{}).Select("id").Where("quiz_id = ?", quizID)).
		Delete(&models.Option{}).Error
}

func (q *QuestionPostgreSQL) DeleteByQuiz(ctx context.Context, quizID uint) error {
	return q.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Delete(&models.Question{}).Error
}
