package notifications

import (
	"context"

	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	Delete(ctx context.Context, id string) error
}
