package repositories

import (
	"context"

	"github.com/prottasha123/Quiz-MS/internal/models"
)

// UserRepository covers the identity store. The password column holds an
// opaque credential hash; hashing and comparison live in the service layer.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
	GetByRole(ctx context.Context, role models.UserRole) ([]*models.User, error)

	Update(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id uint, role models.UserRole) error
	Delete(ctx context.Context, id uint) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
