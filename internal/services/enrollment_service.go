package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewEnrollmentService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID uint, req validator.EnrollRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	teacher, err := s.repo.User().GetByID(ctx, req.TeacherID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load teacher %d: %w", req.TeacherID, err)
	}
	if teacher.Role != models.RoleTeacher {
		return NewPermissionError("enroll", "target user is not a teacher")
	}

	err = s.repo.Enrollment().Create(ctx, &models.Enrollment{
		StudentID: studentID,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		if repositories.IsDuplicateError(err) {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("failed to enroll student %d with teacher %d: %w", studentID, req.TeacherID, err)
	}

	s.logger.Info("student enrolled", "student_id", studentID, "teacher_id", req.TeacherID)
	s.publish(ctx, events.EventEnrollmentCreated, studentID, map[string]any{"teacher_id": req.TeacherID})
	return nil
}

// Unenroll removes the enrollment. Removing an enrollment that does not
// exist succeeds, so the operation is idempotent.
func (s *enrollmentService) Unenroll(ctx context.Context, studentID, teacherID uint) error {
	affected, err := s.repo.Enrollment().Delete(ctx, studentID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to unenroll student %d from teacher %d: %w", studentID, teacherID, err)
	}
	if affected > 0 {
		s.logger.Info("student unenrolled", "student_id", studentID, "teacher_id", teacherID)
		s.publish(ctx, events.EventEnrollmentRemoved, studentID, map[string]any{"teacher_id": teacherID})
	}
	return nil
}

func (s *enrollmentService) ListTeachers(ctx context.Context, studentID uint) ([]*models.User, error) {
	enrollments, err := s.repo.Enrollment().GetTeachers(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers for student %d: %w", studentID, err)
	}
	teachers := make([]*models.User, 0, len(enrollments))
	for _, enr := range enrollments {
		t := enr.Teacher
		teachers = append(teachers, &t)
	}
	return teachers, nil
}

func (s *enrollmentService) ListStudents(ctx context.Context, teacherID uint) ([]*models.User, error) {
	enrollments, err := s.repo.Enrollment().GetStudents(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students for teacher %d: %w", teacherID, err)
	}
	students := make([]*models.User, 0, len(enrollments))
	for _, enr := range enrollments {
		st := enr.Student
		students = append(students, &st)
	}
	return students, nil
}

// ListAvailableTeachers returns teachers the student is not yet enrolled
// with, for the enrollment picker.
func (s *enrollmentService) ListAvailableTeachers(ctx context.Context, studentID uint) ([]*models.User, error) {
	teachers, err := s.repo.User().GetByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	enrollments, err := s.repo.Enrollment().GetTeachers(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for student %d: %w", studentID, err)
	}

	enrolled := make(map[uint]bool, len(enrollments))
	for _, enr := range enrollments {
		enrolled[enr.TeacherID] = true
	}

	available := make([]*models.User, 0, len(teachers))
	for _, t := range teachers {
		if !enrolled[t.ID] {
			available = append(available, t)
		}
	}
	return available, nil
}

func (s *enrollmentService) publish(ctx context.Context, t events.EventType, actorID uint, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.Event{Type: t, ActorID: actorID, Payload: payload}); err != nil {
		s.logger.Warn("failed to publish event", "event_type", t, "error", err)
	}
}
