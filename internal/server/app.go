// Package server initializes and runs the learnfeed server. It opens the
// configured store and optional cache and broker, builds the services and
// runs the HTTP and gRPC listeners until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"github.com/dmitrijs2005/learnfeed/internal/server/cache"
	"github.com/dmitrijs2005/learnfeed/internal/server/config"
	"github.com/dmitrijs2005/learnfeed/internal/server/httpapi"
	"github.com/dmitrijs2005/learnfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnfeed/internal/server/services"
	"github.com/dmitrijs2005/learnfeed/internal/server/views"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/learnfeed/internal/server/grpc"
)

var (
	openStore   = repomanager.New
	natsConnect = func(url string) (*nats.Conn, error) { return nats.Connect(url, nats.Name("learnfeed")) }
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   repomanager.RepositoryManager
	rdb     *redis.Client
	nc      *nats.Conn
	sub     *nats.Subscription
	handler *httpapi.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	app := &App{config: c, logger: logger}

	store, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}
	app.store = store

	var (
		feedCache services.FeedCache
		evict     views.Invalidator = views.Nop{}
	)
	if c.RedisAddr != "" {
		app.rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		fc := cache.NewFeedCache(app.rdb, c.FeedCacheTTL)
		feedCache, evict = fc, fc
	}

	inv := evict
	if c.NATSURL != "" {
		nc, err := natsConnect(c.NATSURL)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("nats connect error: %w", err)
		}
		app.nc = nc

		sub, err := views.Listen(nc, evict, logger.With("module", "views"))
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("nats subscribe error: %w", err)
		}
		app.sub = sub
		// local eviction completes before the request returns; NATS carries
		// the signal to other instances
		inv = views.Multi{evict, views.NewNatsInvalidator(nc)}
	}

	app.handler = httpapi.NewHandler(
		services.NewPostService(store, inv, feedCache, c, logger),
		services.NewNotificationService(store, inv, logger),
		services.NewUserService(store, inv, logger),
		services.NewMediaService(c),
		logger,
	)

	return app, nil
}

// Close releases the broker, cache and store connections.
func (app *App) Close(ctx context.Context) {
	if app.sub != nil {
		if err := app.sub.Unsubscribe(); err != nil {
			app.logger.Error(ctx, "nats unsubscribe", "error", err)
		}
	}
	if app.nc != nil {
		app.nc.Close()
	}
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error(ctx, "redis close", "error", err)
		}
	}
	if app.store != nil {
		if err := app.store.Close(ctx); err != nil {
			app.logger.Error(ctx, "store close", "error", err)
		}
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.handler, []byte(app.config.SecretKey), app.config.CORSOrigins, app.logger)
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.store, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close(context.Background())
	app.logger.Info(ctx, "App stopped")
}
