// Package memory provides an in-memory Repository implementation used by
// service tests. It emulates the relational constraints that matter to the
// business layer: unique indexes surface ErrDuplicateKey and missing rows
// surface ErrNotFound, exactly as the PostgreSQL implementation reports them.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
)

type MemoryRepository struct {
	mu sync.RWMutex

	users       map[uint]models.User
	enrollments map[uint]models.Enrollment
	quizzes     map[uint]models.Quiz
	questions   map[uint]models.Question
	options     map[uint]models.Option
	attempts    map[uint]models.Attempt

	nextUserID       uint
	nextEnrollmentID uint
	nextQuizID       uint
	nextQuestionID   uint
	nextOptionID     uint
	nextAttemptID    uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:       make(map[uint]models.User),
		enrollments: make(map[uint]models.Enrollment),
		quizzes:     make(map[uint]models.Quiz),
		questions:   make(map[uint]models.Question),
		options:     make(map[uint]models.Option),
		attempts:    make(map[uint]models.Attempt),
	}
}

func (r *MemoryRepository) User() repositories.UserRepository             { return &userMemory{r} }
func (r *MemoryRepository) Enrollment() repositories.EnrollmentRepository { return &enrollmentMemory{r} }
func (r *MemoryRepository) Quiz() repositories.QuizRepository             { return &quizMemory{r} }
func (r *MemoryRepository) Question() repositories.QuestionRepository     { return &questionMemory{r} }
func (r *MemoryRepository) Attempt() repositories.AttemptRepository       { return &attemptMemory{r} }

type snapshot struct {
	users       map[uint]models.User
	enrollments map[uint]models.Enrollment
	quizzes     map[uint]models.Quiz
	questions   map[uint]models.Question
	options     map[uint]models.Option
	attempts    map[uint]models.Attempt

	nextUserID       uint
	nextEnrollmentID uint
	nextQuizID       uint
	nextQuestionID   uint
	nextOptionID     uint
	nextAttemptID    uint
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *MemoryRepository) takeSnapshot() snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return snapshot{
		users:            copyMap(r.users),
		enrollments:      copyMap(r.enrollments),
		quizzes:          copyMap(r.quizzes),
		questions:        copyMap(r.questions),
		options:          copyMap(r.options),
		attempts:         copyMap(r.attempts),
		nextUserID:       r.nextUserID,
		nextEnrollmentID: r.nextEnrollmentID,
		nextQuizID:       r.nextQuizID,
		nextQuestionID:   r.nextQuestionID,
		nextOptionID:     r.nextOptionID,
		nextAttemptID:    r.nextAttemptID,
	}
}

func (r *MemoryRepository) restore(s snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = s.users
	r.enrollments = s.enrollments
	r.quizzes = s.quizzes
	r.questions = s.questions
	r.options = s.options
	r.attempts = s.attempts
	r.nextUserID = s.nextUserID
	r.nextEnrollmentID = s.nextEnrollmentID
	r.nextQuizID = s.nextQuizID
	r.nextQuestionID = s.nextQuestionID
	r.nextOptionID = s.nextOptionID
	r.nextAttemptID = s.nextAttemptID
}

// WithTransaction snapshots the store, runs fn and restores the snapshot when
// fn fails, giving tests real rollback semantics.
func (r *MemoryRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	s := r.takeSnapshot()
	if err := fn(r); err != nil {
		r.restore(s)
		return err
	}
	return nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }
func (r *MemoryRepository) Close() error                   { return nil }

func duplicateErr(detail string) error {
	return fmt.Errorf("%s: %w", detail, repositories.ErrDuplicateKey)
}

func notFoundErr(entity string, id uint) error {
	return fmt.Errorf("%s %d: %w", entity, id, repositories.ErrNotFound)
}

// --- users ---

type userMemory struct{ r *MemoryRepository }

func (u *userMemory) Create(ctx context.Context, user *models.User) error {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	for _, existing := range u.r.users {
		if existing.Email == user.Email {
			return duplicateErr("users.email")
		}
	}
	u.r.nextUserID++
	user.ID = u.r.nextUserID
	u.r.users[user.ID] = *user
	return nil
}

func (u *userMemory) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u.r.mu.RLock()
	defer u.r.mu.RUnlock()
	user, ok := u.r.users[id]
	if !ok {
		return nil, notFoundErr("user", id)
	}
	return &user, nil
}

func (u *userMemory) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u.r.mu.RLock()
	defer u.r.mu.RUnlock()
	for _, user := range u.r.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, fmt.Errorf("user email %s: %w", email, repositories.ErrNotFound)
}

func (u *userMemory) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	u.r.mu.RLock()
	defer u.r.mu.RUnlock()
	var out []*models.User
	for _, user := range u.r.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		c := user
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *userMemory) GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	r := role
	return u.List(ctx, repositories.UserFilters{Role: &r})
}

func (u *userMemory) Update(ctx context.Context, user *models.User) error {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	if _, ok := u.r.users[user.ID]; !ok {
		return notFoundErr("user", user.ID)
	}
	for id, existing := range u.r.users {
		if id != user.ID && existing.Email == user.Email {
			return duplicateErr("users.email")
		}
	}
	u.r.users[user.ID] = *user
	return nil
}

func (u *userMemory) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	user, ok := u.r.users[id]
	if !ok {
		return notFoundErr("user", id)
	}
	user.Role = role
	u.r.users[id] = user
	return nil
}

func (u *userMemory) Delete(ctx context.Context, id uint) error {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	if _, ok := u.r.users[id]; !ok {
		return notFoundErr("user", id)
	}
	delete(u.r.users, id)
	return nil
}

func (u *userMemory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u.r.mu.RLock()
	defer u.r.mu.RUnlock()
	for _, user := range u.r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// --- enrollments ---

type enrollmentMemory struct{ r *MemoryRepository }

func (e *enrollmentMemory) Create(ctx context.Context, enrollment *models.Enrollment) error {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	for _, existing := range e.r.enrollments {
		if existing.StudentID == enrollment.StudentID && existing.TeacherID == enrollment.TeacherID {
			return duplicateErr("enrollments.student_teacher")
		}
	}
	e.r.nextEnrollmentID++
	enrollment.ID = e.r.nextEnrollmentID
	e.r.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (e *enrollmentMemory) Delete(ctx context.Context, studentID, teacherID uint) (int64, error) {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	var affected int64
	for id, existing := range e.r.enrollments {
		if existing.StudentID == studentID && existing.TeacherID == teacherID {
			delete(e.r.enrollments, id)
			affected++
		}
	}
	return affected, nil
}

func (e *enrollmentMemory) Exists(ctx context.Context, studentID, teacherID uint) (bool, error) {
	e.r.mu.RLock()
	defer e.r.mu.RUnlock()
	for _, existing := range e.r.enrollments {
		if existing.StudentID == studentID && existing.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (e *enrollmentMemory) GetStudents(ctx context.Context, teacherID uint) ([]*models.Enrollment, error) {
	e.r.mu.RLock()
	defer e.r.mu.RUnlock()
	var out []*models.Enrollment
	for _, enr := range e.r.enrollments {
		if enr.TeacherID != teacherID {
			continue
		}
		c := enr
		if student, ok := e.r.users[enr.StudentID]; ok {
			c.Student = student
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (e *enrollmentMemory) GetTeachers(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	e.r.mu.RLock()
	defer e.r.mu.RUnlock()
	var out []*models.Enrollment
	for _, enr := range e.r.enrollments {
		if enr.StudentID != studentID {
			continue
		}
		c := enr
		if teacher, ok := e.r.users[enr.TeacherID]; ok {
			c.Teacher = teacher
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (e *enrollmentMemory) DeleteByUser(ctx context.Context, userID uint) error {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	for id, enr := range e.r.enrollments {
		if enr.StudentID == userID || enr.TeacherID == userID {
			delete(e.r.enrollments, id)
		}
	}
	return nil
}

// --- quizzes ---

type quizMemory struct{ r *MemoryRepository }

func (q *quizMemory) Create(ctx context.Context, quiz *models.Quiz) error {
	q.r.mu.Lock()
	defer q.r.mu.Unlock()
	for _, existing := range q.r.quizzes {
		if existing.Code == quiz.Code {
			return duplicateErr("quizzes.code")
		}
	}
	q.r.nextQuizID++
	quiz.ID = q.r.nextQuizID

	for qi := range quiz.Questions {
		q.r.nextQuestionID++
		quiz.Questions[qi].ID = q.r.nextQuestionID
		quiz.Questions[qi].QuizID = quiz.ID
		for oi := range quiz.Questions[qi].Options {
			q.r.nextOptionID++
			quiz.Questions[qi].Options[oi].ID = q.r.nextOptionID
			quiz.Questions[qi].Options[oi].QuestionID = quiz.Questions[qi].ID
			q.r.options[quiz.Questions[qi].Options[oi].ID] = quiz.Questions[qi].Options[oi]
		}
		stored := quiz.Questions[qi]
		stored.Options = nil
		q.r.questions[stored.ID] = stored
	}

	stored := *quiz
	stored.Questions = nil
	q.r.quizzes[quiz.ID] = stored
	return nil
}

func (q *quizMemory) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	quiz, ok := q.r.quizzes[id]
	if !ok {
		return nil, notFoundErr("quiz", id)
	}
	return &quiz, nil
}

func (q *quizMemory) GetByIDWithDetails(ctx context.Context, id uint) (*models.Quiz, error) {
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	quiz, ok := q.r.quizzes[id]
	if !ok {
		return nil, notFoundErr("quiz", id)
	}
	quiz.Questions = q.questionsForQuizLocked(id)
	return &quiz, nil
}

// questionsForQuizLocked assumes the caller holds at least a read lock.
func (q *quizMemory) questionsForQuizLocked(quizID uint) []models.Question {
	var questions []models.Question
	for _, question := range q.r.questions {
		if question.QuizID != quizID {
			continue
		}
		c := question
		for _, opt := range q.r.options {
			if opt.QuestionID == c.ID {
				c.Options = append(c.Options, opt)
			}
		}
		sort.Slice(c.Options, func(i, j int) bool { return c.Options[i].ID < c.Options[j].ID })
		questions = append(questions, c)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

func (q *quizMemory) GetByCode(ctx context.Context, code string) (*models.Quiz, error) {
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	for _, quiz := range q.r.quizzes {
		if quiz.Code == code {
			out := quiz
			return &out, nil
		}
	}
	return nil, fmt.Errorf("quiz code %s: %w", code, repositories.ErrNotFound)
}

func (q *quizMemory) GetByTeacher(ctx context.Context, teacherID uint) ([]*models.Quiz, error) {
	tid := teacherID
	return q.List(ctx, repositories.QuizFilters{TeacherID: &tid})
}

func (q *quizMemory) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, error) {
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	var out []*models.Quiz
	for _, quiz := range q.r.quizzes {
		if filters.TeacherID != nil && quiz.TeacherID != *filters.TeacherID {
			continue
		}
		if filters.IsActive != nil && quiz.IsActive != *filters.IsActive {
			continue
		}
		c := quiz
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *quizMemory) GetVisibleForStudent(ctx context.Context, studentID uint) ([]*models.Quiz, error) {
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	teachers := make(map[uint]bool)
	for _, enr := range q.r.enrollments {
		if enr.StudentID == studentID {
			teachers[enr.TeacherID] = true
		}
	}
	var out []*models.Quiz
	for _, quiz := range q.r.quizzes {
		if quiz.IsActive && teachers[quiz.TeacherID] {
			c := quiz
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *quizMemory) ToggleActive(ctx context.Context, id uint) (bool, error) {
	q.r.mu.Lock()
	defer q.r.mu.Unlock()
	quiz, ok := q.r.quizzes[id]
	if !ok {
		return false, notFoundErr("quiz", id)
	}
	quiz.IsActive = !quiz.IsActive
	q.r.quizzes[id] = quiz
	return quiz.IsActive, nil
}

func (q *quizMemory) Delete(ctx context.Context, id uint) error {
	q.r.mu.Lock()
	defer q.r.mu.Unlock()
	if _, ok := q.r.quizzes[id]; !ok {
		return notFoundErr("quiz", id)
	}
	delete(q.r.quizzes, id)
	return nil
}

// --- questions ---

type questionMemory struct{ r *MemoryRepository }

func (q *questionMemory) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	qm := &quizMemory{q.r}
	q.r.mu.RLock()
	defer q.r.mu.RUnlock()
	questions := qm.questionsForQuizLocked(quizID)
	out := make([]*models.Question, len(questions))
	for i := range questions {
		out[i] = &questions[i]
	}
	return out, nil
}

func (q *questionMemory) DeleteOptionsByQuiz(ctx context.Context, quizID uint) error {
	q.r.mu.Lock()
	defer q.r.mu.Unlock()
	for optID, opt := range q.r.options {
		question, ok := q.r.questions[opt.QuestionID]
		if ok && question.QuizID == quizID {
			delete(q.r.options, optID)
		}
	}
	return nil
}

func (q *questionMemory) DeleteByQuiz(ctx context.Context, quizID uint) error {
	q.r.mu.Lock()
	defer q.r.mu.Unlock()
	for id, question := range q.r.questions {
		if question.QuizID == quizID {
			delete(q.r.questions, id)
		}
	}
	return nil
}

// --- attempts ---

type attemptMemory struct{ r *MemoryRepository }

func (a *attemptMemory) Create(ctx context.Context, attempt *models.Attempt) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	for _, existing := range a.r.attempts {
		if existing.StudentID == attempt.StudentID && existing.QuizID == attempt.QuizID {
			return duplicateErr("attempts.student_quiz")
		}
	}
	a.r.nextAttemptID++
	attempt.ID = a.r.nextAttemptID
	a.r.attempts[attempt.ID] = *attempt
	return nil
}

func (a *attemptMemory) GetByID(ctx context.Context, id uint) (*models.Attempt, error) {
	a.r.mu.RLock()
	defer a.r.mu.RUnlock()
	attempt, ok := a.r.attempts[id]
	if !ok {
		return nil, notFoundErr("attempt", id)
	}
	return &attempt, nil
}

func (a *attemptMemory) GetByStudentAndQuiz(ctx context.Context, studentID, quizID uint) (*models.Attempt, error) {
	a.r.mu.RLock()
	defer a.r.mu.RUnlock()
	for _, attempt := range a.r.attempts {
		if attempt.StudentID == studentID && attempt.QuizID == quizID {
			out := attempt
			return &out, nil
		}
	}
	return nil, fmt.Errorf("attempt for student %d quiz %d: %w", studentID, quizID, repositories.ErrNotFound)
}

func (a *attemptMemory) Exists(ctx context.Context, studentID, quizID uint) (bool, error) {
	_, err := a.GetByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (a *attemptMemory) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Attempt, error) {
	qid := quizID
	attempts, err := a.List(ctx, repositories.AttemptFilters{QuizID: &qid})
	if err != nil {
		return nil, err
	}
	a.r.mu.RLock()
	defer a.r.mu.RUnlock()
	for _, attempt := range attempts {
		if student, ok := a.r.users[attempt.StudentID]; ok {
			attempt.Student = student
		}
	}
	return attempts, nil
}

func (a *attemptMemory) GetByStudent(ctx context.Context, studentID uint) ([]*models.Attempt, error) {
	sid := studentID
	attempts, err := a.List(ctx, repositories.AttemptFilters{StudentID: &sid})
	if err != nil {
		return nil, err
	}
	a.r.mu.RLock()
	defer a.r.mu.RUnlock()
	for _, attempt := range attempts {
		if quiz, ok := a.r.quizzes[attempt.QuizID]; ok {
			attempt.Quiz = quiz
		}
	}
	return attempts, nil
}

func (a *attemptMemory) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.Attempt, error) {
	a.r.mu.RLock()
	defer a.r.mu.RUnlock()
	var out []*models.Attempt
	for _, attempt := range a.r.attempts {
		if filters.QuizID != nil && attempt.QuizID != *filters.QuizID {
			continue
		}
		if filters.StudentID != nil && attempt.StudentID != *filters.StudentID {
			continue
		}
		c := attempt
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (a *attemptMemory) DeleteByQuiz(ctx context.Context, quizID uint) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	for id, attempt := range a.r.attempts {
		if attempt.QuizID == quizID {
			delete(a.r.attempts, id)
		}
	}
	return nil
}

func (a *attemptMemory) DeleteByStudent(ctx context.Context, studentID uint) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	for id, attempt := range a.r.attempts {
		if attempt.StudentID == studentID {
			delete(a.r.attempts, id)
		}
	}
	return nil
}
