package services

import (
	"log/slog"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

// ServiceManager wires every service over one repository and publisher.
type ServiceManager struct {
	User       UserService
	Enrollment EnrollmentService
	Quiz       QuizService
	Attempt    AttemptService
	Ranking    RankingService
	Dashboard  DashboardService
	Export     ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
) *ServiceManager {
	v := validator.New()
	ranking := NewRankingService(repo)

	return &ServiceManager{
		User:       NewUserService(repo, publisher, logger, v),
		Enrollment: NewEnrollmentService(repo, publisher, logger, v),
		Quiz:       NewQuizService(repo, publisher, logger, v),
		Attempt:    NewAttemptService(repo, ranking, publisher, logger, v),
		Ranking:    ranking,
		Dashboard:  NewDashboardService(repo),
		Export:     NewExportService(repo, ranking, logger),
	}
}
