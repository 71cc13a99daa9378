package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/utils"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

// maxCodeAttempts bounds the join code retry loop. With 36^6 codes the loop
// effectively never exhausts unless the table is pathologically full.
const maxCodeAttempts = 100

type quizService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// codeFn generates join code candidates; tests override it to force
	// collisions.
	codeFn func() string
}

func NewQuizService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) QuizService {
	return &quizService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
		codeFn:    func() string { return utils.GenerateJoinCode(models.CodeLength) },
	}
}

func (s *quizService) CreateQuiz(ctx context.Context, teacherID uint, req validator.QuizCreateRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	teacher, err := s.repo.User().GetByID(ctx, teacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load teacher %d: %w", teacherID, err)
	}
	if teacher.Role != models.RoleTeacher {
		return nil, NewPermissionError("create quiz", "only teachers can create quizzes")
	}

	quiz := &models.Quiz{
		TeacherID:   teacherID,
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		Duration:    req.Duration,
		IsActive:    true,
		Questions:   make([]models.Question, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		question := models.Question{
			Text:    q.Text,
			Marks:   q.Marks,
			Options: make([]models.Option, 0, len(q.Options)),
		}
		for i, opt := range q.Options {
			question.Options = append(question.Options, models.Option{
				Text:      opt.Text,
				IsCorrect: i == q.CorrectIndex,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	// The code column's unique index arbitrates collisions; on a duplicate
	// the insert is retried with a fresh candidate.
	var created bool
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		quiz.Code = s.codeFn()
		err := s.repo.Quiz().Create(ctx, quiz)
		if err == nil {
			created = true
			break
		}
		if repositories.IsDuplicateError(err) {
			s.logger.Debug("quiz code collision, retrying", "code", quiz.Code)
			continue
		}
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	if !created {
		return nil, ErrCodeSpaceExhausted
	}

	s.logger.Info("quiz created",
		"quiz_id", quiz.ID,
		"teacher_id", teacherID,
		"code", quiz.Code,
		"questions", len(quiz.Questions),
	)
	s.publish(ctx, events.EventQuizCreated, teacherID, map[string]any{
		"quiz_id": quiz.ID,
		"code":    quiz.Code,
	})

	return quiz, nil
}

func (s *quizService) GetQuizDetail(ctx context.Context, actorID uint, role models.UserRole, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	if role != models.RoleAdmin && quiz.TeacherID != actorID {
		return nil, NewPermissionError("view quiz detail", "quiz belongs to another teacher")
	}
	return quiz, nil
}

func (s *quizService) ListTeacherQuizzes(ctx context.Context, teacherID uint) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().GetByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for teacher %d: %w", teacherID, err)
	}
	return quizzes, nil
}

func (s *quizService) ListVisibleQuizzes(ctx context.Context, studentID uint) ([]*models.Quiz, error) {
	quizzes, err := s.repo.Quiz().GetVisibleForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible quizzes for student %d: %w", studentID, err)
	}
	return quizzes, nil
}

// JoinByCode resolves a join code to its quiz and enrolls the student with
// the owning teacher. Re-joining an already joined quiz is a no-op.
func (s *quizService) JoinByCode(ctx context.Context, studentID uint, req validator.JoinQuizRequest) (*models.Quiz, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(req.Code)
	quiz, err := s.repo.Quiz().GetByCode(ctx, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to resolve code %s: %w", code, err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	err = s.repo.Enrollment().Create(ctx, &models.Enrollment{
		StudentID: studentID,
		TeacherID: quiz.TeacherID,
	})
	if err != nil && !repositories.IsDuplicateError(err) {
		return nil, fmt.Errorf("failed to enroll student %d via code: %w", studentID, err)
	}
	if err == nil {
		s.publish(ctx, events.EventEnrollmentCreated, studentID, map[string]any{
			"teacher_id": quiz.TeacherID,
			"via":        "join_code",
		})
	}

	return quiz, nil
}

func (s *quizService) ToggleQuiz(ctx context.Context, actorID uint, role models.UserRole, quizID uint) (bool, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuizNotFound
		}
		return false, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if role != models.RoleAdmin && quiz.TeacherID != actorID {
		return false, NewPermissionError("toggle quiz", "quiz belongs to another teacher")
	}

	active, err := s.repo.Quiz().ToggleActive(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrQuizNotFound
		}
		return false, fmt.Errorf("failed to toggle quiz %d: %w", quizID, err)
	}

	s.logger.Info("quiz toggled", "quiz_id", quizID, "is_active", active, "actor_id", actorID)
	s.publish(ctx, events.EventQuizToggled, actorID, map[string]any{
		"quiz_id":   quizID,
		"is_active": active,
	})
	return active, nil
}

// DeleteQuiz removes the quiz and everything hanging off it. Children go
// first so a failure mid-way rolls back to a consistent state.
func (s *quizService) DeleteQuiz(ctx context.Context, actorID uint, role models.UserRole, quizID uint) error {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuizNotFound
		}
		return fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if role != models.RoleAdmin && quiz.TeacherID != actorID {
		return NewPermissionError("delete quiz", "quiz belongs to another teacher")
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Attempt().DeleteByQuiz(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete attempts: %w", err)
		}
		if err := tx.Question().DeleteOptionsByQuiz(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		if err := tx.Question().DeleteByQuiz(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		if err := tx.Quiz().Delete(ctx, quizID); err != nil {
			return fmt.Errorf("failed to delete quiz: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", quizID, err)
	}

	s.logger.Info("quiz deleted", "quiz_id", quizID, "actor_id", actorID)
	s.publish(ctx, events.EventQuizDeleted, actorID, map[string]any{"quiz_id": quizID})
	return nil
}

func (s *quizService) publish(ctx context.Context, t events.EventType, actorID uint, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.Event{Type: t, ActorID: actorID, Payload: payload}); err != nil {
		s.logger.Warn("failed to publish event", "event_type", t, "error", err)
	}
}
