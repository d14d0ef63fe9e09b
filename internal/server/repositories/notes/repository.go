package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

// Repository persists notes. Lookups are by primary key only; ownership
// is enforced by the service layer.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
}
