package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/common"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []*models.Notification{
		{ID: "n1", AuthUserID: "u1", Body: "a", Type: models.NotificationLike, CreatedAt: base},
		{ID: "n2", AuthUserID: "u1", Body: "b", Type: models.NotificationLike, CreatedAt: base.Add(time.Minute)},
		{ID: "n3", AuthUserID: "u2", Body: "c", Type: models.NotificationLike, CreatedAt: base},
	} {
		_, err := r.Create(ctx, n)
		require.NoError(t, err)
	}

	_, err := r.Create(ctx, &models.Notification{ID: "n1"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := r.ListByRecipient(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.Equal(t, "n1", got[1].ID)

	one, err := r.GetByID(ctx, "n3")
	require.NoError(t, err)
	assert.Equal(t, "u2", one.AuthUserID)

	require.NoError(t, r.Delete(ctx, "n3"))
	assert.ErrorIs(t, r.Delete(ctx, "n3"), common.ErrorNotFound)
	_, err = r.GetByID(ctx, "n3")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	limited, err := r.ListByRecipient(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
