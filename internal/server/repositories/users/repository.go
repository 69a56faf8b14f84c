package users

import (
	"context"

	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// Repository stores user profiles and the follow graph.
//
// ToggleFollow flips the follower -> target edge in one step, moves the
// target's follower count with it and reports whether the follower follows
// the target afterwards. Either user missing yields common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListOthers(ctx context.Context, excludeID string, limit int) ([]*models.User, error)
	ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error)
	AdjustFollowerCount(ctx context.Context, id string, delta int64) error
	UpdateImage(ctx context.Context, id, image string) error
}
