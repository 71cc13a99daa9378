package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/utils"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

func TestCreateQuiz(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)

	quiz := env.createQuiz(t, teacher.ID)

	if len(quiz.Code) != models.CodeLength {
		t.Errorf("code length = %d, want %d", len(quiz.Code), models.CodeLength)
	}
	for _, r := range quiz.Code {
		if !strings.ContainsRune(utils.CodeCharset, r) {
			t.Errorf("code %q contains %q outside the charset", quiz.Code, r)
		}
	}
	if !quiz.IsActive {
		t.Error("new quiz should start active")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(quiz.Questions))
	}
	for _, q := range quiz.Questions {
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			t.Errorf("question %d has %d correct options, want exactly 1", q.ID, correct)
		}
	}
}

func TestCreateQuiz_RetriesOnCodeCollision(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)

	first := env.createQuiz(t, teacher.ID)

	svc := env.quiz.(*quizService)
	calls := 0
	svc.codeFn = func() string {
		calls++
		if calls == 1 {
			return first.Code
		}
		return "FRESH1"
	}

	second, err := env.quiz.CreateQuiz(context.Background(), teacher.ID, twoQuestionQuizRequest())
	if err != nil {
		t.Fatalf("CreateQuiz after collision: %v", err)
	}
	if second.Code != "FRESH1" {
		t.Errorf("code = %q, want the regenerated candidate", second.Code)
	}
	if calls != 2 {
		t.Errorf("code generator called %d times, want 2", calls)
	}
}

func TestCreateQuiz_CodeSpaceExhausted(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)

	first := env.createQuiz(t, teacher.ID)

	svc := env.quiz.(*quizService)
	svc.codeFn = func() string { return first.Code }

	_, err := env.quiz.CreateQuiz(context.Background(), teacher.ID, twoQuestionQuizRequest())
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("err = %v, want ErrCodeSpaceExhausted", err)
	}
}

func TestCreateQuiz_OnlyTeachers(t *testing.T) {
	env := newTestEnv(t)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)

	_, err := env.quiz.CreateQuiz(context.Background(), student.ID, twoQuestionQuizRequest())
	if !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}
}

func TestCreateQuiz_Validation(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)

	tests := []struct {
		name   string
		mutate func(*validator.QuizCreateRequest)
	}{
		{"missing title", func(r *validator.QuizCreateRequest) { r.Title = "" }},
		{"no questions", func(r *validator.QuizCreateRequest) { r.Questions = nil }},
		{"three options", func(r *validator.QuizCreateRequest) {
			r.Questions[0].Options = r.Questions[0].Options[:3]
		}},
		{"correct index out of range", func(r *validator.QuizCreateRequest) {
			r.Questions[0].CorrectIndex = 4
		}},
		{"zero marks", func(r *validator.QuizCreateRequest) { r.Questions[0].Marks = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := twoQuestionQuizRequest()
			tt.mutate(&req)

			_, err := env.quiz.CreateQuiz(context.Background(), teacher.ID, req)
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("err = %v, want ValidationErrors", err)
			}
		})
	}
}

func TestToggleQuiz(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	quiz := env.createQuiz(t, teacher.ID)
	ctx := context.Background()

	active, err := env.quiz.ToggleQuiz(ctx, teacher.ID, teacher.Role, quiz.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if active {
		t.Error("first toggle should deactivate the quiz")
	}

	active, err = env.quiz.ToggleQuiz(ctx, teacher.ID, teacher.Role, quiz.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if !active {
		t.Error("second toggle should restore the original state")
	}
}

func TestToggleQuiz_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner := env.registerUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.registerUser(t, "Other", "other@example.com", models.RoleTeacher)
	quiz := env.createQuiz(t, owner.ID)

	if _, err := env.quiz.ToggleQuiz(context.Background(), other.ID, other.Role, quiz.ID); !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}

	// Admins may toggle any quiz.
	admin := env.createAdmin(t, "admin@example.com")
	if _, err := env.quiz.ToggleQuiz(context.Background(), admin.ID, admin.Role, quiz.ID); err != nil {
		t.Fatalf("admin toggle: %v", err)
	}
}

func TestDeleteQuiz_CascadesWithoutTouchingOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)

	doomed := env.createQuiz(t, teacher.ID)
	kept := env.createQuiz(t, teacher.ID)

	for _, quiz := range []*models.Quiz{doomed, kept} {
		if _, err := env.attempt.SubmitQuiz(ctx, student.ID, quiz.ID, validator.SubmitQuizRequest{
			Answers: answersFor(t, quiz, len(quiz.Questions)),
		}); err != nil {
			t.Fatalf("submit quiz %d: %v", quiz.ID, err)
		}
	}

	if err := env.quiz.DeleteQuiz(ctx, teacher.ID, teacher.Role, doomed.ID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}

	if _, err := env.quiz.GetQuizDetail(ctx, teacher.ID, teacher.Role, doomed.ID); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("deleted quiz still readable, err = %v", err)
	}
	if questions, _ := env.repo.Question().GetByQuiz(ctx, doomed.ID); len(questions) != 0 {
		t.Errorf("deleted quiz kept %d questions", len(questions))
	}
	if attempts, _ := env.repo.Attempt().GetByQuiz(ctx, doomed.ID); len(attempts) != 0 {
		t.Errorf("deleted quiz kept %d attempts", len(attempts))
	}

	// The sibling quiz is untouched.
	keptDetail, err := env.quiz.GetQuizDetail(ctx, teacher.ID, teacher.Role, kept.ID)
	if err != nil {
		t.Fatalf("kept quiz unreadable: %v", err)
	}
	if len(keptDetail.Questions) != 2 {
		t.Errorf("kept quiz has %d questions, want 2", len(keptDetail.Questions))
	}
	if attempts, _ := env.repo.Attempt().GetByQuiz(ctx, kept.ID); len(attempts) != 1 {
		t.Errorf("kept quiz has %d attempts, want 1", len(attempts))
	}
}

func TestJoinByCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	quiz := env.createQuiz(t, teacher.ID)

	joined, err := env.quiz.JoinByCode(ctx, student.ID, validator.JoinQuizRequest{Code: strings.ToLower(quiz.Code)})
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if joined.ID != quiz.ID {
		t.Errorf("joined quiz %d, want %d", joined.ID, quiz.ID)
	}

	enrolled, err := env.repo.Enrollment().Exists(ctx, student.ID, teacher.ID)
	if err != nil || !enrolled {
		t.Fatalf("join should enroll the student, enrolled=%v err=%v", enrolled, err)
	}

	// Joining again is a no-op, not an error.
	if _, err := env.quiz.JoinByCode(ctx, student.ID, validator.JoinQuizRequest{Code: quiz.Code}); err != nil {
		t.Fatalf("repeat join: %v", err)
	}

	if _, err := env.quiz.JoinByCode(ctx, student.ID, validator.JoinQuizRequest{Code: "ZZZZZ9"}); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("unknown code err = %v, want ErrQuizNotFound", err)
	}

	if _, err := env.quiz.ToggleQuiz(ctx, teacher.ID, teacher.Role, quiz.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := env.quiz.JoinByCode(ctx, student.ID, validator.JoinQuizRequest{Code: quiz.Code}); !errors.Is(err, ErrQuizInactive) {
		t.Errorf("inactive quiz err = %v, want ErrQuizInactive", err)
	}
}

func TestVisibleQuizzes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacherA := env.registerUser(t, "A", "a@example.com", models.RoleTeacher)
	teacherB := env.registerUser(t, "B", "b@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)

	visibleQuiz := env.createQuiz(t, teacherA.ID)
	inactiveQuiz := env.createQuiz(t, teacherA.ID)
	env.createQuiz(t, teacherB.ID) // not enrolled with B

	env.enroll(t, student.ID, teacherA.ID)
	if _, err := env.quiz.ToggleQuiz(ctx, teacherA.ID, teacherA.Role, inactiveQuiz.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	visible, err := env.quiz.ListVisibleQuizzes(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListVisibleQuizzes: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != visibleQuiz.ID {
		t.Fatalf("visible = %v, want only quiz %d", quizIDs(visible), visibleQuiz.ID)
	}
}

func quizIDs(quizzes []*models.Quiz) []uint {
	ids := make([]uint, len(quizzes))
	for i, q := range quizzes {
		ids[i] = q.ID
	}
	return ids
}
