// Package repomanager selects and owns the storage backend: it opens the
// connection, prepares the schema and vends the per-entity repositories.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Posts() posts.Repository
	Notifications() notifications.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New opens the backend named by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		m, err := OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StoreMongo:
		m, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StoreMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
