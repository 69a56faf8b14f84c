package posts

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
)

// MemoryRepository keeps posts in process memory. The mutex makes
// ToggleLike a single read-modify-write.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{posts: make(map[string]*models.Post), now: time.Now}
}

func clone(p *models.Post) *models.Post {
	c := *p
	c.LikedIDs = slices.Clone(p.LikedIDs)
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	stored := clone(post)
	if stored.LikedIDs == nil {
		stored.LikedIDs = []string{}
	}
	r.posts[post.ID] = stored
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		result = append(result, clone(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MemoryRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[postID]
	if !ok {
		return false, common.ErrorNotFound
	}

	liked := true
	if i := slices.Index(p.LikedIDs, userID); i >= 0 {
		p.LikedIDs = slices.Delete(p.LikedIDs, i, i+1)
		liked = false
	} else {
		p.LikedIDs = append(p.LikedIDs, userID)
	}
	p.UpdatedAt = r.now()
	return liked, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}
