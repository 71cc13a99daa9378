package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

func TestEnroll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)

	env.enroll(t, student.ID, teacher.ID)

	err := env.enrollment.Enroll(ctx, student.ID, validator.EnrollRequest{TeacherID: teacher.ID})
	if !errors.Is(err, ErrDuplicateEnrollment) {
		t.Fatalf("repeat enroll err = %v, want ErrDuplicateEnrollment", err)
	}

	teachers, err := env.enrollment.ListTeachers(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListTeachers: %v", err)
	}
	if len(teachers) != 1 || teachers[0].ID != teacher.ID {
		t.Errorf("teachers = %v, want only %d", teachers, teacher.ID)
	}
}

func TestEnroll_TargetMustBeTeacher(t *testing.T) {
	env := newTestEnv(t)
	studentA := env.registerUser(t, "A", "a@example.com", models.RoleStudent)
	studentB := env.registerUser(t, "B", "b@example.com", models.RoleStudent)

	err := env.enrollment.Enroll(context.Background(), studentA.ID, validator.EnrollRequest{TeacherID: studentB.ID})
	if !IsPermissionError(err) {
		t.Fatalf("err = %v, want PermissionError", err)
	}

	err = env.enrollment.Enroll(context.Background(), studentA.ID, validator.EnrollRequest{TeacherID: 9999})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUnenroll_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	teacher := env.registerUser(t, "Teacher", "teacher@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, teacher.ID)

	if err := env.enrollment.Unenroll(ctx, student.ID, teacher.ID); err != nil {
		t.Fatalf("first unenroll: %v", err)
	}
	// Removing an absent enrollment still succeeds.
	if err := env.enrollment.Unenroll(ctx, student.ID, teacher.ID); err != nil {
		t.Fatalf("second unenroll: %v", err)
	}

	teachers, err := env.enrollment.ListTeachers(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListTeachers: %v", err)
	}
	if len(teachers) != 0 {
		t.Errorf("teachers = %d, want 0", len(teachers))
	}
}

func TestListAvailableTeachers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	enrolled := env.registerUser(t, "Enrolled", "enrolled@example.com", models.RoleTeacher)
	available := env.registerUser(t, "Available", "available@example.com", models.RoleTeacher)
	student := env.registerUser(t, "Student", "student@example.com", models.RoleStudent)
	env.enroll(t, student.ID, enrolled.ID)

	teachers, err := env.enrollment.ListAvailableTeachers(ctx, student.ID)
	if err != nil {
		t.Fatalf("ListAvailableTeachers: %v", err)
	}
	if len(teachers) != 1 || teachers[0].ID != available.ID {
		t.Fatalf("available = %v, want only teacher %d", teachers, available.ID)
	}
}
