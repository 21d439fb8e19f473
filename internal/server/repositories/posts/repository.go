package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// GetByID returns the post joined with its author's public fields.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetForUpdate returns the bare post row and locks it until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// List returns posts newest first, joined with their authors.
	List(ctx context.Context, offset, limit int) ([]*models.Post, error)
}
