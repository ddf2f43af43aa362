package users

import (
	"context"

	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

// Repository is the account store. Username lookups are case-insensitive.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}
