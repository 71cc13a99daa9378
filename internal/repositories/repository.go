package repositories

import "context"

// Repository aggregates the per-entity repositories behind one interface so
// services can be handed either the Postgres-backed implementation or the
// in-memory one used in tests.
type Repository interface {
	User() UserRepository
	Enrollment() EnrollmentRepository
	Quiz() QuizRepository
	Question() QuestionRepository
	Attempt() AttemptRepository

	// WithTransaction runs fn against a transaction-bound Repository. Any
	// error returned by fn rolls back every write made through it.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
