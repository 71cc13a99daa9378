package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

func TestSubmitQuiz_Grading(t *testing.T) {
	// Quiz worth 5: question one carries 2 marks, question two carries 3.
	tests := []struct {
		name         string
		correctCount int
		want         int
	}{
		{"all correct", 2, 5},
		{"first correct only", 1, 2},
		{"none correct", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
			student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
			env.enroll(t, student.ID, teacher.ID)
			quiz := env.createQuiz(t, teacher.ID)

			result, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{
				Answers: answersFor(t, quiz, tt.correctCount),
			})
			if err != nil {
				t.Fatalf("SubmitQuiz: %v", err)
			}
			if result.MarksObtained != tt.want {
				t.Errorf("marks = %d, want %d", result.MarksObtained, tt.want)
			}
			if result.TotalMarks != 5 {
				t.Errorf("total = %d, want 5", result.TotalMarks)
			}
		})
	}
}

func TestSubmitQuiz_EmptySubmissionScoresZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)
	quiz := env.createQuiz(t, teacher.ID)

	result, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.MarksObtained != 0 || result.TotalMarks != 5 {
		t.Errorf("got %d/%d, want 0/5", result.MarksObtained, result.TotalMarks)
	}
}

func TestSubmitQuiz_ForeignOptionScoresZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)
	quiz := env.createQuiz(t, teacher.ID)

	// Answer question one with an option belonging to question two.
	q1 := quiz.Questions[0]
	q2 := quiz.Questions[1]
	answers := map[uint]uint{q1.ID: q2.Options[0].ID}

	result, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{Answers: answers})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if result.MarksObtained != 0 {
		t.Errorf("marks = %d, want 0 for a cross-question option", result.MarksObtained)
	}
}

func TestSubmitQuiz_SecondAttemptRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)
	quiz := env.createQuiz(t, teacher.ID)

	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{}); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("second submit err = %v, want ErrAlreadyAttempted", err)
	}

	attempts, err := env.repo.Attempt().GetByQuiz(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("GetByQuiz: %v", err)
	}
	if len(attempts) != 1 {
		t.Errorf("attempts = %d, want exactly 1", len(attempts))
	}
}

func TestSubmitQuiz_Gates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	quiz := env.createQuiz(t, teacher.ID)

	// Not enrolled.
	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{}); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("err = %v, want ErrNotEnrolled", err)
	}

	// Inactive quiz.
	env.enroll(t, student.ID, teacher.ID)
	if _, err := env.quiz.ToggleQuiz(ctx, teacher.ID, teacher.Role, quiz.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{}); !errors.Is(err, ErrQuizInactive) {
		t.Errorf("err = %v, want ErrQuizInactive", err)
	}

	// Unknown quiz.
	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, 9999, validator.SubmitQuizRequest{}); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("err = %v, want ErrQuizNotFound", err)
	}
}

func TestSubmitQuiz_PublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)
	quiz := env.createQuiz(t, teacher.ID)

	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{
		Answers: answersFor(t, quiz, 2),
	}); err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	published := env.publisher.EventsOfType(events.EventQuizSubmitted)
	if len(published) != 1 {
		t.Fatalf("published %d quiz.submitted events, want 1", len(published))
	}
	if published[0].ActorID != student.ID {
		t.Errorf("actor = %d, want student %d", published[0].ActorID, student.ID)
	}
}

func TestTakeQuiz_HidesAnswerKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)
	quiz := env.createQuiz(t, teacher.ID)

	view, err := env.attempt.TakeQuiz(ctx, student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("TakeQuiz: %v", err)
	}
	if view.TotalMarks != 5 {
		t.Errorf("total marks = %d, want 5", view.TotalMarks)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(view.Questions))
	}
	for _, q := range view.Questions {
		if len(q.Options) != models.OptionsPerQuestion {
			t.Errorf("question %d has %d options, want %d", q.ID, len(q.Options), models.OptionsPerQuestion)
		}
	}

	// A prior attempt blocks re-taking.
	if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := env.attempt.TakeQuiz(ctx, student.ID, quiz.ID); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("retake err = %v, want ErrAlreadyAttempted", err)
	}
}

func TestGetQuizResults_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.registerUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.registerUser(t, "Other", "other@example.com", models.RoleTeacher)
	quiz := env.createQuiz(t, owner.ID)

	if _, err := env.attempt.GetQuizResults(ctx, other.ID, other.Role, quiz.ID); !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}
	if _, err := env.attempt.GetQuizResults(ctx, owner.ID, owner.Role, quiz.ID); err != nil {
		t.Fatalf("owner read: %v", err)
	}
}
