package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/models"
	"github.com/prottasha123/Quiz-MS/internal/repositories"
	"github.com/prottasha123/Quiz-MS/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) UserService {
	return &userService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) Register(ctx context.Context, req validator.SignUpRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hash),
		Role:     models.UserRole(req.Role),
		IsActive: true,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	s.publish(ctx, events.EventUserRegistered, user.ID, map[string]any{"role": user.Role})
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, req validator.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req validator.UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return user, nil
}

func (s *userService) ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	users, err := s.repo.User().GetByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role %s: %w", role, err)
	}
	return users, nil
}

// UpdateRole changes a user's role. Admins cannot change their own role so
// the system never silently loses its last administrator.
func (s *userService) UpdateRole(ctx context.Context, actorID uint, userID uint, req validator.UpdateRoleRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if actorID == userID {
		return nil, NewPermissionError("update role", "cannot change own role")
	}

	role := models.UserRole(req.Role)
	if err := s.repo.User().UpdateRole(ctx, userID, role); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role for user %d: %w", userID, err)
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user %d: %w", userID, err)
	}

	s.logger.Info("user role updated", "user_id", userID, "role", role, "actor_id", actorID)
	s.publish(ctx, events.EventUserPromoted, actorID, map[string]any{"user_id": userID, "role": role})
	return user, nil
}

// RemoveUser deletes the user and everything they own in one transaction.
// A teacher takes their quizzes, questions, options and student attempts
// down with them; a student takes their attempts and enrollments.
func (s *userService) RemoveUser(ctx context.Context, actorID uint, userID uint) error {
	if actorID == userID {
		return ErrSelfDeletion
	}

	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user %d: %w", userID, err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Attempt().DeleteByStudent(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete attempts: %w", err)
		}
		if user.Role == models.RoleTeacher {
			quizzes, err := tx.Quiz().GetByTeacher(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to list quizzes: %w", err)
			}
			for _, quiz := range quizzes {
				if err := tx.Attempt().DeleteByQuiz(ctx, quiz.ID); err != nil {
					return fmt.Errorf("failed to delete attempts for quiz %d: %w", quiz.ID, err)
				}
				if err := tx.Question().DeleteOptionsByQuiz(ctx, quiz.ID); err != nil {
					return fmt.Errorf("failed to delete options for quiz %d: %w", quiz.ID, err)
				}
				if err := tx.Question().DeleteByQuiz(ctx, quiz.ID); err != nil {
					return fmt.Errorf("failed to delete questions for quiz %d: %w", quiz.ID, err)
				}
				if err := tx.Quiz().Delete(ctx, quiz.ID); err != nil {
					return fmt.Errorf("failed to delete quiz %d: %w", quiz.ID, err)
				}
			}
		}
		if err := tx.Enrollment().DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		if err := tx.User().Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove user %d: %w", userID, err)
	}

	s.logger.Info("user removed", "user_id", userID, "role", user.Role, "actor_id", actorID)
	s.publish(ctx, events.EventUserRemoved, actorID, map[string]any{"user_id": userID, "role": user.Role})
	return nil
}

func (s *userService) publish(ctx context.Context, t events.EventType, actorID uint, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.Event{Type: t, ActorID: actorID, Payload: payload}); err != nil {
		s.logger.Warn("failed to publish event", "event_type", t, "error", err)
	}
}
