package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories/memory"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

// testEnv wires every service over the in-memory repository.
type testEnv struct {
	repo      *memory.MemoryRepository
	publisher *events.MockEventPublisher

	users      UserService
	enrollment EnrollmentService
	quiz       QuizService
	attempt    AttemptService
	ranking    RankingService
	dashboard  DashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewMemoryRepository()
	publisher := events.NewMockEventPublisher()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	ranking := NewRankingService(repo)

	return &testEnv{
		repo:       repo,
		publisher:  publisher,
		users:      NewUserService(repo, publisher, logger, v),
		enrollment: NewEnrollmentService(repo, publisher, logger, v),
		quiz:       NewQuizService(repo, publisher, logger, v),
		attempt:    NewAttemptService(repo, ranking, publisher, logger, v),
		ranking:    ranking,
		dashboard:  NewDashboardService(repo),
	}
}

func (e *testEnv) registerUser(t *testing.T, name, email string, role models.UserRole) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), validator.SignUpRequest{
		FullName: name,
		Email:    email,
		Password: "secret123",
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createAdmin(t *testing.T, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := &models.User{
		FullName: "Admin",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := e.repo.User().Create(context.Background(), admin); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}
	return admin
}

func (e *testEnv) enroll(t *testing.T, studentID, teacherID uint) {
	t.Helper()
	err := e.enrollment.Enroll(context.Background(), studentID, validator.EnrollRequest{TeacherID: teacherID})
	if err != nil {
		t.Fatalf("failed to enroll student %d with teacher %d: %v", studentID, teacherID, err)
	}
}

// twoQuestionQuizRequest builds a quiz worth 5 marks: question one carries 2,
// question two carries 3, the first option of each is correct.
func twoQuestionQuizRequest() validator.QuizCreateRequest {
	return validator.QuizCreateRequest{
		Title:    "Fundamentals",
		Subject:  "Math",
		Duration: 30,
		Questions: []validator.QuestionRequest{
			{
				Text:  "2 + 2 = ?",
				Marks: 2,
				Options: []validator.OptionRequest{
					{Text: "4"}, {Text: "3"}, {Text: "5"}, {Text: "22"},
				},
				CorrectIndex: 0,
			},
			{
				Text:  "3 * 3 = ?",
				Marks: 3,
				Options: []validator.OptionRequest{
					{Text: "9"}, {Text: "6"}, {Text: "33"}, {Text: "12"},
				},
				CorrectIndex: 0,
			},
		},
	}
}

func (e *testEnv) createQuiz(t *testing.T, teacherID uint) *models.Quiz {
	t.Helper()
	quiz, err := e.quiz.CreateQuiz(context.Background(), teacherID, twoQuestionQuizRequest())
	if err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}
	return quiz
}

// answersFor picks one option per question: the correct one for the first
// correctCount questions, a wrong one for the rest.
func answersFor(t *testing.T, quiz *models.Quiz, correctCount int) map[uint]uint {
	t.Helper()
	answers := make(map[uint]uint)
	for i, q := range quiz.Questions {
		var correct, wrong uint
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct = opt.ID
			} else {
				wrong = opt.ID
			}
		}
		if correct == 0 || wrong == 0 {
			t.Fatalf("question %d is missing a correct or wrong option", q.ID)
		}
		if i < correctCount {
			answers[q.ID] = correct
		} else {
			answers[q.ID] = wrong
		}
	}
	return answers
}
