package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type exportService struct {
	repo    repositories.Repository
	ranking RankingService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, ranking RankingService, logger *slog.Logger) ExportService {
	return &exportService{repo: repo, ranking: ranking, logger: logger}
}

// ExportQuizResults renders the quiz leaderboard as an xlsx workbook. The
// second return value is the suggested file name.
func (s *exportService) ExportQuizResults(ctx context.Context, actorID uint, role models.UserRole, quizID uint) ([]byte, string, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrQuizNotFound
		}
		return nil, "", fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if role != models.RoleAdmin && quiz.TeacherID != actorID {
		return nil, "", NewPermissionError("export quiz results", "quiz belongs to another teacher")
	}

	ranking, err := s.ranking.QuizRanking(ctx, quizID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	const sheet = "Results"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Rank", "Student", "Marks Obtained", "Total Marks", "Attempted At"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, result := range ranking {
		values := []any{
			result.Rank,
			result.StudentName,
			result.MarksObtained,
			result.TotalMarks,
			result.AttemptedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, "", fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	name := fmt.Sprintf("quiz_%s_results.xlsx", quiz.Code)
	s.logger.Info("quiz results exported", "quiz_id", quizID, "rows", len(ranking), "actor_id", actorID)
	return buf.Bytes(), name, nil
}
