package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreBackend = config.StoreMemory
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.LogLevel = "error"
	return cfg
}

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.NotNil(t, app.handler)
	assert.Nil(t, app.rdb)
	assert.Nil(t, app.nc)
}

func TestNewApp_StoreError(t *testing.T) {
	orig := openStore
	t.Cleanup(func() { openStore = orig })
	openStore = func(context.Context, *config.Config) (repomanager.RepositoryManager, error) {
		return nil, errors.New("dial tcp: refused")
	}

	_, err := NewApp(context.Background(), memoryConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store init error")
}

func TestNewApp_NatsError(t *testing.T) {
	orig := natsConnect
	t.Cleanup(func() { natsConnect = orig })
	natsConnect = func(string) (*nats.Conn, error) { return nil, nats.ErrNoServers }

	cfg := memoryConfig()
	cfg.NATSURL = "nats://127.0.0.1:1"

	_, err := NewApp(context.Background(), cfg)
	require.ErrorIs(t, err, nats.ErrNoServers)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
