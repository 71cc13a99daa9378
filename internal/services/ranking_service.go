package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type rankingService struct {
	repo repositories.Repository
}

func NewRankingService(repo repositories.Repository) RankingService {
	return &rankingService{repo: repo}
}

// QuizRanking builds the leaderboard for one quiz. Rank is one plus the
// number of strictly higher scores, so scores 90,90,80,70 rank 1,1,3,4.
func (s *rankingService) QuizRanking(ctx context.Context, quizID uint) ([]RankedResult, error) {
	attempts, err := s.repo.Attempt().GetByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts for quiz %d: %w", quizID, err)
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].MarksObtained != attempts[j].MarksObtained {
			return attempts[i].MarksObtained > attempts[j].MarksObtained
		}
		return attempts[i].AttemptedAt.Before(attempts[j].AttemptedAt)
	})

	results := make([]RankedResult, 0, len(attempts))
	for i, attempt := range attempts {
		rank := i + 1
		if i > 0 && attempt.MarksObtained == attempts[i-1].MarksObtained {
			rank = results[i-1].Rank
		}
		results = append(results, RankedResult{
			Rank:          rank,
			StudentID:     attempt.StudentID,
			StudentName:   attempt.Student.FullName,
			MarksObtained: attempt.MarksObtained,
			TotalMarks:    attempt.TotalMarks,
			AttemptedAt:   attempt.AttemptedAt,
		})
	}
	return results, nil
}

// StudentRank returns the student's rank on one quiz leaderboard.
func (s *rankingService) StudentRank(ctx context.Context, studentID, quizID uint) (int, error) {
	ranking, err := s.QuizRanking(ctx, quizID)
	if err != nil {
		return 0, err
	}
	for _, row := range ranking {
		if row.StudentID == studentID {
			return row.Rank, nil
		}
	}
	return 0, ErrAttemptNotFound
}
