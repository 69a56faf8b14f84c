package repomanager

import (
	"context"

	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Used for
// local runs and tests; nothing survives a restart.
type MemoryRepositoryManager struct {
	users         *users.MemoryRepository
	posts         *posts.MemoryRepository
	notifications *notifications.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		posts:         posts.NewMemoryRepository(),
		notifications: notifications.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *MemoryRepositoryManager) Notifications() notifications.Repository {
	return m.notifications
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}
