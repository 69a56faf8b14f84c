package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.StoreMemory}

	m, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Posts())
	assert.NotNil(t, m.Notifications())
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close(context.Background()))
}

func TestNew_UnknownBackend(t *testing.T) {
	m, err := New(context.Background(), &config.Config{StoreBackend: "cassandra"})
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "cassandra")
}

func TestNew_PostgresOpenErrorReturnsNilManager(t *testing.T) {
	stubOpen(t, nil, assert.AnError)

	m, err := New(context.Background(), &config.Config{StoreBackend: config.StorePostgres, DatabaseDSN: "x"})
	require.Error(t, err)
	assert.Nil(t, m)
}
