package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prottasha123/Quiz-MS/internal/models"
)

func seedAttempt(t *testing.T, env *testEnv, studentID, quizID uint, marks int, at time.Time) {
	t.Helper()
	err := env.repo.Attempt().Create(context.Background(), &models.Attempt{
		StudentID:     studentID,
		QuizID:        quizID,
		MarksObtained: marks,
		TotalMarks:    100,
		AttemptedAt:   at,
	})
	if err != nil {
		t.Fatalf("failed to seed attempt: %v", err)
	}
}

func TestQuizRanking_TiesShareRankAndNextRankSkips(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	quiz := env.createQuiz(t, teacher.ID)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scores := []int{90, 90, 80, 70}
	var students []*models.User
	for i, score := range scores {
		student := env.registerUser(t, "Student", string(rune('a'+i))+"@example.com", models.RoleStudent)
		students = append(students, student)
		seedAttempt(t, env, student.ID, quiz.ID, score, base.Add(time.Duration(i)*time.Minute))
	}

	ranking, err := env.ranking.QuizRanking(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("QuizRanking: %v", err)
	}
	if len(ranking) != 4 {
		t.Fatalf("rows = %d, want 4", len(ranking))
	}

	wantRanks := []int{1, 1, 3, 4}
	wantMarks := []int{90, 90, 80, 70}
	for i, row := range ranking {
		if row.Rank != wantRanks[i] {
			t.Errorf("row %d rank = %d, want %d", i, row.Rank, wantRanks[i])
		}
		if row.MarksObtained != wantMarks[i] {
			t.Errorf("row %d marks = %d, want %d", i, row.MarksObtained, wantMarks[i])
		}
	}

	// Spot-check individual lookups on both sides of the tie.
	if rank, err := env.ranking.StudentRank(ctx, students[1].ID, quiz.ID); err != nil || rank != 1 {
		t.Errorf("tied student rank = %d err = %v, want 1", rank, err)
	}
	if rank, err := env.ranking.StudentRank(ctx, students[3].ID, quiz.ID); err != nil || rank != 4 {
		t.Errorf("last student rank = %d err = %v, want 4", rank, err)
	}
}

func TestQuizRanking_EmptyQuiz(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	quiz := env.createQuiz(t, teacher.ID)

	ranking, err := env.ranking.QuizRanking(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("QuizRanking: %v", err)
	}
	if len(ranking) != 0 {
		t.Errorf("rows = %d, want 0", len(ranking))
	}
}

func TestStudentRank_NoAttempt(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	quiz := env.createQuiz(t, teacher.ID)

	if _, err := env.ranking.StudentRank(context.Background(), student.ID, quiz.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("err = %v, want ErrAttemptNotFound", err)
	}
}
