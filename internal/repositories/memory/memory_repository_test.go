package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, &models.User{
			FullName: "Ghost",
			Email:    "ghost@example.com",
			Role:     models.RoleStudent,
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}

	if exists, _ := repo.User().ExistsByEmail(ctx, "ghost@example.com"); exists {
		t.Error("rolled back user still exists")
	}
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return tx.User().Create(ctx, &models.User{
			FullName: "Kept",
			Email:    "kept@example.com",
			Role:     models.RoleStudent,
		})
	})
	if err != nil {
		t.Fatalf("WithTransaction: %v", err)
	}

	if exists, _ := repo.User().ExistsByEmail(ctx, "kept@example.com"); !exists {
		t.Error("committed user missing")
	}
}

func TestUniqueConstraints(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.User().Create(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.User().Create(ctx, &models.User{Email: "a@example.com"})
	if !repositories.IsDuplicateError(err) {
		t.Errorf("duplicate email err = %v, want duplicate key", err)
	}

	if err := repo.Enrollment().Create(ctx, &models.Enrollment{StudentID: 1, TeacherID: 2}); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	err = repo.Enrollment().Create(ctx, &models.Enrollment{StudentID: 1, TeacherID: 2})
	if !repositories.IsDuplicateError(err) {
		t.Errorf("duplicate enrollment err = %v, want duplicate key", err)
	}

	if err := repo.Attempt().Create(ctx, &models.Attempt{StudentID: 1, QuizID: 1}); err != nil {
		t.Fatalf("attempt: %v", err)
	}
	err = repo.Attempt().Create(ctx, &models.Attempt{StudentID: 1, QuizID: 1})
	if !repositories.IsDuplicateError(err) {
		t.Errorf("duplicate attempt err = %v, want duplicate key", err)
	}

	if err := repo.Quiz().Create(ctx, &models.Quiz{Code: "AAAAAA"}); err != nil {
		t.Fatalf("quiz: %v", err)
	}
	err = repo.Quiz().Create(ctx, &models.Quiz{Code: "AAAAAA"})
	if !repositories.IsDuplicateError(err) {
		t.Errorf("duplicate code err = %v, want duplicate key", err)
	}
}

func TestNestedQuizCreateAssignsIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	quiz := &models.Quiz{
		Code: "BBBBBB",
		Questions: []models.Question{
			{Text: "q1", Marks: 2, Options: []models.Option{{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}},
		},
	}
	if err := repo.Quiz().Create(ctx, quiz); err != nil {
		t.Fatalf("create: %v", err)
	}
	if quiz.ID == 0 || quiz.Questions[0].ID == 0 || quiz.Questions[0].Options[0].ID == 0 {
		t.Error("nested create left ids unset")
	}

	detail, err := repo.Quiz().GetByIDWithDetails(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(detail.Questions) != 1 || len(detail.Questions[0].Options) != 4 {
		t.Errorf("details shape = %d questions / %d options, want 1/4",
			len(detail.Questions), len(detail.Questions[0].Options))
	}
}
