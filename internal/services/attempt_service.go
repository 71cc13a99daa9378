package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	ranking   RankingService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(
	repo repositories.Repository,
	ranking RankingService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) AttemptService {
	return &attemptService{
		repo:      repo,
		ranking:   ranking,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// TakeQuiz returns the quiz ready to sit: active, owner enrolled with the
// student, no prior attempt, and answer keys stripped from the payload.
func (s *attemptService) TakeQuiz(ctx context.Context, studentID, quizID uint) (*QuizTakeView, error) {
	// Prior attempt is checked before anything else so a student who already
	// sat the quiz never sees its questions again.
	attempted, err := s.repo.Attempt().Exists(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to check prior attempt: %w", err)
	}
	if attempted {
		return nil, ErrAlreadyAttempted
	}

	quiz, err := s.loadEligibleQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, err
	}

	view := &QuizTakeView{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Subject:   quiz.Subject,
		Duration:  quiz.Duration,
		Questions: make([]QuestionView, 0, len(quiz.Questions)),
	}
	for _, q := range quiz.Questions {
		qv := QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Marks:   q.Marks,
			Options: make([]OptionView, 0, len(q.Options)),
		}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, OptionView{ID: opt.ID, Text: opt.Text})
		}
		view.TotalMarks += q.Marks
		view.Questions = append(view.Questions, qv)
	}
	return view, nil
}

// SubmitQuiz grades the submission and records the attempt. The unique
// (student, quiz) index is the final arbiter under concurrent submits: the
// loser of the race gets ErrAlreadyAttempted, never a second row.
func (s *attemptService) SubmitQuiz(ctx context.Context, studentID, quizID uint, req validator.SubmitQuizRequest) (*SubmissionResult, error) {
	quiz, err := s.loadEligibleQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, err
	}

	obtained, total := grade(quiz.Questions, req.Answers)

	rawAnswers, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	attempt := &models.Attempt{
		StudentID:     studentID,
		QuizID:        quizID,
		MarksObtained: obtained,
		TotalMarks:    total,
		Answers:       datatypes.JSON(rawAnswers),
		AttemptedAt:   time.Now(),
	}
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	s.logger.Info("quiz submitted",
		"student_id", studentID,
		"quiz_id", quizID,
		"marks_obtained", obtained,
		"total_marks", total,
	)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.Event{
			Type:    events.EventQuizSubmitted,
			ActorID: studentID,
			Payload: map[string]any{
				"quiz_id":        quizID,
				"marks_obtained": obtained,
				"total_marks":    total,
			},
		}); err != nil {
			s.logger.Warn("failed to publish event", "event_type", events.EventQuizSubmitted, "error", err)
		}
	}

	return &SubmissionResult{
		AttemptID:     attempt.ID,
		QuizID:        quizID,
		MarksObtained: obtained,
		TotalMarks:    total,
		AttemptedAt:   attempt.AttemptedAt,
	}, nil
}

func (s *attemptService) GetStudentResults(ctx context.Context, studentID uint) ([]StudentResult, error) {
	attempts, err := s.repo.Attempt().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts for student %d: %w", studentID, err)
	}

	results := make([]StudentResult, 0, len(attempts))
	for _, attempt := range attempts {
		rank, err := s.ranking.StudentRank(ctx, studentID, attempt.QuizID)
		if err != nil {
			return nil, err
		}
		results = append(results, StudentResult{
			QuizID:        attempt.QuizID,
			QuizTitle:     attempt.Quiz.Title,
			Subject:       attempt.Quiz.Subject,
			MarksObtained: attempt.MarksObtained,
			TotalMarks:    attempt.TotalMarks,
			Rank:          rank,
			AttemptedAt:   attempt.AttemptedAt,
		})
	}
	return results, nil
}

func (s *attemptService) GetQuizResults(ctx context.Context, actorID uint, role models.UserRole, quizID uint) ([]RankedResult, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if role != models.RoleAdmin && quiz.TeacherID != actorID {
		return nil, NewPermissionError("view quiz results", "quiz belongs to another teacher")
	}
	return s.ranking.QuizRanking(ctx, quizID)
}

// loadEligibleQuiz enforces the gate shared by take and submit: the quiz
// exists, is active, and its owner has the student enrolled.
func (s *attemptService) loadEligibleQuiz(ctx context.Context, studentID, quizID uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithDetails(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	enrolled, err := s.repo.Enrollment().Exists(ctx, studentID, quiz.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return quiz, nil
}

// grade scores a submission. Unanswered questions and answers that do not
// match an option of their question score zero; marks accumulate only for
// the correct option.
func grade(questions []models.Question, answers map[uint]uint) (obtained, total int) {
	for _, q := range questions {
		total += q.Marks
		selected, answered := answers[q.ID]
		if !answered {
			continue
		}
		for _, opt := range q.Options {
			if opt.ID == selected && opt.IsCorrect {
				obtained += q.Marks
				break
			}
		}
	}
	return obtained, total
}
