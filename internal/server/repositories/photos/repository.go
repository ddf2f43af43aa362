package photos

import (
	"context"

	"github.com/dmitrijs2005/datingapp/internal/server/models"
)

// Repository is the photo-collection store. A user's collection is always
// loaded and saved as a unit; Replace overwrites the stored collection with
// the given one and must run inside the caller's transaction to be atomic.
type Repository interface {
	Load(ctx context.Context, userID string) (models.PhotoCollection, error)
	Replace(ctx context.Context, userID string, collection models.PhotoCollection) error
}
