package posts

import (
	"context"

	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// Repository stores posts and their liker sets.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns up to limit posts, newest first.
	List(ctx context.Context, limit int) ([]*models.Post, error)
	// ToggleLike flips userID's membership in the post's liker set as one
	// atomic step and reports whether userID is a liker afterwards.
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	Delete(ctx context.Context, id string) error
}
