package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *MemoryRepository, users ...*models.User) {
	t.Helper()
	for _, u := range users {
		_, err := r.Create(context.Background(), u)
		require.NoError(t, err)
	}
}

func TestMemoryCreateGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1", Name: "Ada"})

	_, err := r.Create(ctx, &models.User{ID: "u1"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	_, err = r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1"}, &models.User{ID: "u2"})

	_, err := r.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)

	got, _ := r.GetByID(ctx, "u1")
	got.FollowingIDs[0] = "mutated"

	again, _ := r.GetByID(ctx, "u1")
	assert.Equal(t, []string{"u2"}, again.FollowingIDs)
}

func TestMemoryListOthers(t *testing.T) {
	r := NewMemoryRepository()
	base := time.Now()
	seed(t, r,
		&models.User{ID: "me", CreatedAt: base},
		&models.User{ID: "a", FollowerCount: 1, CreatedAt: base},
		&models.User{ID: "b", FollowerCount: 5, CreatedAt: base},
		&models.User{ID: "c", FollowerCount: 1, CreatedAt: base.Add(time.Second)},
	)

	got, err := r.ListOthers(context.Background(), "me", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestMemoryToggleFollow(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1"}, &models.User{ID: "u2"})

	following, err := r.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)
	target, _ := r.GetByID(ctx, "u2")
	assert.Equal(t, int64(1), target.FollowerCount)

	following, err = r.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, following)
	target, _ = r.GetByID(ctx, "u2")
	assert.Equal(t, int64(0), target.FollowerCount)
	me, _ := r.GetByID(ctx, "u1")
	assert.Empty(t, me.FollowingIDs)

	_, err = r.ToggleFollow(ctx, "ghost", "u1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.ToggleFollow(ctx, "u1", "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	me, _ = r.GetByID(ctx, "u1")
	assert.Empty(t, me.FollowingIDs)
}

func TestMemoryToggleFollowConcurrent(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1"}, &models.User{ID: "u2"})

	const n = 20
	var (
		wg      sync.WaitGroup
		follows atomic.Int32
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			following, err := r.ToggleFollow(ctx, "u1", "u2")
			assert.NoError(t, err)
			if following {
				follows.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(n/2), follows.Load())
	me, _ := r.GetByID(ctx, "u1")
	assert.Empty(t, me.FollowingIDs)
	target, _ := r.GetByID(ctx, "u2")
	assert.Equal(t, int64(0), target.FollowerCount)
}

func TestMemoryAdjustFollowerCountClamps(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1", FollowerCount: 1})

	require.NoError(t, r.AdjustFollowerCount(ctx, "u1", -3))
	got, _ := r.GetByID(ctx, "u1")
	assert.Equal(t, int64(0), got.FollowerCount)

	require.NoError(t, r.AdjustFollowerCount(ctx, "u1", 2))
	got, _ = r.GetByID(ctx, "u1")
	assert.Equal(t, int64(2), got.FollowerCount)

	assert.ErrorIs(t, r.AdjustFollowerCount(ctx, "ghost", 1), common.ErrorNotFound)
}

func TestMemoryUpdateImage(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	seed(t, r, &models.User{ID: "u1"})

	require.NoError(t, r.UpdateImage(ctx, "u1", "avatars/u1/a"))
	got, _ := r.GetByID(ctx, "u1")
	assert.Equal(t, "avatars/u1/a", got.Image)
	assert.ErrorIs(t, r.UpdateImage(ctx, "ghost", "x"), common.ErrorNotFound)
}
