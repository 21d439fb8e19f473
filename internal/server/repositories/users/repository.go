package users

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail loads a user by exact email. PasswordHash is filled only
	// when withPassword is set.
	GetByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
