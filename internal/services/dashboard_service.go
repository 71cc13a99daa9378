package services

import (
	"context"
	"fmt"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type dashboardService struct {
	repo repositories.Repository
}

func NewDashboardService(repo repositories.Repository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) ForTeacher(ctx context.Context, teacherID uint) (*TeacherDashboard, error) {
	quizzes, err := s.repo.Quiz().GetByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quizzes: %w", err)
	}
	students, err := s.repo.Enrollment().GetStudents(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	dash := &TeacherDashboard{
		QuizCount:    len(quizzes),
		StudentCount: len(students),
	}
	for _, quiz := range quizzes {
		if quiz.IsActive {
			dash.ActiveQuizCount++
		}
		attempts, err := s.repo.Attempt().GetByQuiz(ctx, quiz.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load attempts for quiz %d: %w", quiz.ID, err)
		}
		dash.AttemptCount += len(attempts)
	}
	return dash, nil
}

func (s *dashboardService) ForStudent(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	teachers, err := s.repo.Enrollment().GetTeachers(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}
	visible, err := s.repo.Quiz().GetVisibleForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load visible quizzes: %w", err)
	}
	attempts, err := s.repo.Attempt().GetByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	dash := &StudentDashboard{
		EnrolledTeachers:  len(teachers),
		AvailableQuizzes:  len(visible),
		CompletedAttempts: len(attempts),
	}
	for _, attempt := range attempts {
		dash.TotalMarksEarned += attempt.MarksObtained
	}
	return dash, nil
}

func (s *dashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.repo.User().List(ctx, repositories.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	quizzes, err := s.repo.Quiz().List(ctx, repositories.QuizFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	attempts, err := s.repo.Attempt().List(ctx, repositories.AttemptFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	dash := &AdminDashboard{
		UserCount:    len(users),
		QuizCount:    len(quizzes),
		AttemptCount: len(attempts),
	}
	for _, user := range users {
		switch user.Role {
		case models.RoleTeacher:
			dash.TeacherCount++
		case models.RoleStudent:
			dash.StudentCount++
		}
	}
	return dash, nil
}
