package users

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository persists user accounts. Missing rows are reported as
// common.ErrorNotFound, email collisions as common.ErrDuplicateEmail.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
