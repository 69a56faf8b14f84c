package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/auth"
	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/dmitrijs2005/learnfeed/internal/server/models"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
	"github.com/stretchr/testify/require"
)

var (
	ada = &auth.Principal{UserID: "u1", FirstName: "Ada", LastName: "Lovelace", Username: "ada", Email: "ada@example.com"}
	bob = &auth.Principal{UserID: "u2", FirstName: "Bob", LastName: "Builder", Username: "bob"}
	cy  = &auth.Principal{UserID: "u3", FirstName: "Cy", LastName: "Young", Username: "cy"}
)

type recordingViews struct {
	mu    sync.Mutex
	views []views.View
	err   error
}

func (r *recordingViews) Invalidate(ctx context.Context, view views.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	return r.err
}

func (r *recordingViews) seen() []views.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]views.View(nil), r.views...)
}

func testConfig() *config.Config {
	return &config.Config{
		FeedSize:       50,
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "avatars",
	}
}

func seedUsers(t *testing.T, m repomanager.RepositoryManager, ps ...*auth.Principal) {
	t.Helper()
	for _, p := range ps {
		_, err := m.Users().Create(context.Background(), &models.User{
			ID: p.UserID, Name: p.DisplayName(), Username: p.Username, FollowingIDs: []string{}, CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}
}

func newPostFixture(t *testing.T) (*PostService, *repomanager.MemoryRepositoryManager, *recordingViews) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	rec := &recordingViews{}
	return NewPostService(m, rec, nil, testConfig(), logging.Nop{}), m, rec
}
