package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/notifications"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoConnectTimeout = 10 * time.Second

// MongoRepositoryManager vends mongo-backed repositories over one client.
type MongoRepositoryManager struct {
	client        *mongo.Client
	db            *mongo.Database
	users         *users.MongoRepository
	posts         *posts.MongoRepository
	notifications *notifications.MongoRepository
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	db := client.Database(database)
	return &MongoRepositoryManager{
		client:        client,
		db:            db,
		users:         users.NewMongoRepository(db),
		posts:         posts.NewMongoRepository(db),
		notifications: notifications.NewMongoRepository(db),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *MongoRepositoryManager) Notifications() notifications.Repository {
	return m.notifications
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the feed, notification and follow bar
// queries sort on. Creating an existing index is a no-op.
func (m *MongoRepositoryManager) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  string
		model mongo.IndexModel
	}{
		{posts.CollectionName, mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		{notifications.CollectionName, mongo.IndexModel{Keys: bson.D{{Key: "authUserId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{users.CollectionName, mongo.IndexModel{Keys: bson.D{{Key: "followerCount", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := m.db.Collection(idx.coll).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.coll, err)
		}
	}
	return nil
}

// mongoConnect is a seam for testing mongo.Connect.
var mongoConnect = mongo.Connect

// OpenMongo connects, pings the primary and ensures indexes.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongoConnect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	m := NewMongoRepositoryManager(client, database)
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}
