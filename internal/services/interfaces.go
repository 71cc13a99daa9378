package services

import (
	"context"
	"time"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

// OptionView is an answer choice with the correctness flag stripped.
type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type QuestionView struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Marks   int          `json:"marks"`
	Options []OptionView `json:"options"`
}

// QuizTakeView is the quiz as shown to a student sitting it. It never
// carries correctness information.
type QuizTakeView struct {
	QuizID     uint           `json:"quiz_id"`
	Title      string         `json:"title"`
	Subject    string         `json:"subject"`
	Duration   int            `json:"duration"`
	TotalMarks int            `json:"total_marks"`
	Questions  []QuestionView `json:"questions"`
}

type SubmissionResult struct {
	AttemptID     uint      `json:"attempt_id"`
	QuizID        uint      `json:"quiz_id"`
	MarksObtained int       `json:"marks_obtained"`
	TotalMarks    int       `json:"total_marks"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

// RankedResult is one leaderboard row. Equal scores share a rank and the
// next distinct score resumes at its ordinal position.
type RankedResult struct {
	Rank          int       `json:"rank"`
	StudentID     uint      `json:"student_id"`
	StudentName   string    `json:"student_name"`
	MarksObtained int       `json:"marks_obtained"`
	TotalMarks    int       `json:"total_marks"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

// StudentResult is one row of a student's own result history.
type StudentResult struct {
	QuizID        uint      `json:"quiz_id"`
	QuizTitle     string    `json:"quiz_title"`
	Subject       string    `json:"subject"`
	MarksObtained int       `json:"marks_obtained"`
	TotalMarks    int       `json:"total_marks"`
	Rank          int       `json:"rank"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

type TeacherDashboard struct {
	QuizCount       int `json:"quiz_count"`
	ActiveQuizCount int `json:"active_quiz_count"`
	StudentCount    int `json:"student_count"`
	AttemptCount    int `json:"attempt_count"`
}

type StudentDashboard struct {
	EnrolledTeachers  int `json:"enrolled_teachers"`
	AvailableQuizzes  int `json:"available_quizzes"`
	CompletedAttempts int `json:"completed_attempts"`
	TotalMarksEarned  int `json:"total_marks_earned"`
}

type AdminDashboard struct {
	UserCount    int `json:"user_count"`
	TeacherCount int `json:"teacher_count"`
	StudentCount int `json:"student_count"`
	QuizCount    int `json:"quiz_count"`
	AttemptCount int `json:"attempt_count"`
}

type UserService interface {
	Register(ctx context.Context, req validator.SignUpRequest) (*models.User, error)
	Authenticate(ctx context.Context, req validator.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req validator.UpdateProfileRequest) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)
	UpdateRole(ctx context.Context, actorID uint, userID uint, req validator.UpdateRoleRequest) (*models.User, error)
	RemoveUser(ctx context.Context, actorID uint, userID uint) error
}

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID uint, req validator.EnrollRequest) error
	Unenroll(ctx context.Context, studentID, teacherID uint) error
	ListTeachers(ctx context.Context, studentID uint) ([]*models.User, error)
	ListStudents(ctx context.Context, teacherID uint) ([]*models.User, error)
	ListAvailableTeachers(ctx context.Context, studentID uint) ([]*models.User, error)
}

type QuizService interface {
	CreateQuiz(ctx context.Context, teacherID uint, req validator.QuizCreateRequest) (*models.Quiz, error)
	GetQuizDetail(ctx context.Context, actorID uint, role models.UserRole, quizID uint) (*models.Quiz, error)
	ListTeacherQuizzes(ctx context.Context, teacherID uint) ([]*models.Quiz, error)
	ListVisibleQuizzes(ctx context.Context, studentID uint) ([]*models.Quiz, error)
	JoinByCode(ctx context.Context, studentID uint, req validator.JoinQuizRequest) (*models.Quiz, error)
	ToggleQuiz(ctx context.Context, actorID uint, role models.UserRole, quizID uint) (bool, error)
	DeleteQuiz(ctx context.Context, actorID uint, role models.UserRole, quizID uint) error
}

type AttemptService interface {
	TakeQuiz(ctx context.Context, studentID, quizID uint) (*QuizTakeView, error)
	SubmitQuiz(ctx context.Context, studentID, quizID uint, req validator.SubmitQuizRequest) (*SubmissionResult, error)
	GetStudentResults(ctx context.Context, studentID uint) ([]StudentResult, error)
	GetQuizResults(ctx context.Context, actorID uint, role models.UserRole, quizID uint) ([]RankedResult, error)
}

type RankingService interface {
	QuizRanking(ctx context.Context, quizID uint) ([]RankedResult, error)
	StudentRank(ctx context.Context, studentID, quizID uint) (int, error)
}

type DashboardService interface {
	ForTeacher(ctx context.Context, teacherID uint) (*TeacherDashboard, error)
	ForStudent(ctx context.Context, studentID uint) (*StudentDashboard, error)
	ForAdmin(ctx context.Context) (*AdminDashboard, error)
}

type ExportService interface {
	// ExportQuizResults renders the leaderboard of one quiz as an xlsx
	// workbook and returns its bytes.
	ExportQuizResults(ctx context.Context, actorID uint, role models.UserRole, quizID uint) ([]byte, string, error)
}
