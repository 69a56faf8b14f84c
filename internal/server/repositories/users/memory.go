package users

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// MemoryRepository keeps users in process memory. Returned values are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func clone(u *models.User) *models.User {
	c := *u
	c.FollowingIDs = slices.Clone(u.FollowingIDs)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.users[user.ID] = clone(user)
	return user, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

// ListOthers orders by follower count, most followed first.
func (r *MemoryRepository) ListOthers(ctx context.Context, excludeID string, limit int) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.User, 0, len(r.users))
	for id, u := range r.users {
		if id == excludeID {
			continue
		}
		result = append(result, clone(u))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FollowerCount != result[j].FollowerCount {
			return result[i].FollowerCount > result[j].FollowerCount
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[followerID]
	if !ok {
		return false, common.ErrorNotFound
	}
	target, ok := r.users[targetID]
	if !ok {
		return false, common.ErrorNotFound
	}
	if i := slices.Index(u.FollowingIDs, targetID); i >= 0 {
		u.FollowingIDs = slices.Delete(u.FollowingIDs, i, i+1)
		target.FollowerCount = max(target.FollowerCount-1, 0)
		return false, nil
	}
	u.FollowingIDs = append(u.FollowingIDs, targetID)
	target.FollowerCount++
	return true, nil
}

// AdjustFollowerCount never lets the count go below zero.
func (r *MemoryRepository) AdjustFollowerCount(ctx context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.FollowerCount = max(u.FollowerCount+delta, 0)
	return nil
}

func (r *MemoryRepository) UpdateImage(ctx context.Context, id, image string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Image = image
	return nil
}
