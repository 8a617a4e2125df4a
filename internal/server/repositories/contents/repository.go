// Package contents persists the metadata index rows mapping backing-store
// handles to {kind, uploader, creation time}.
package contents

import (
	"context"

	"github.com/chanvault/chanvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, content *models.Content) (*models.Content, error)
	Get(ctx context.Context, id string) (*models.Content, error)
	ListByUploader(ctx context.Context, uploaderID string) ([]*models.Content, error)
	Delete(ctx context.Context, id string) error
}
