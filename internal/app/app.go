package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/betstream/internal/catalog"
	"github.com/GlebRadaev/betstream/internal/config"
	"github.com/GlebRadaev/betstream/internal/handlers"
	"github.com/GlebRadaev/betstream/internal/metrics"
	"github.com/GlebRadaev/betstream/internal/outbox"
	"github.com/GlebRadaev/betstream/internal/pg"
	"github.com/GlebRadaev/betstream/internal/reconcile"
	"github.com/GlebRadaev/betstream/internal/repo"
	"github.com/GlebRadaev/betstream/internal/service"
	"github.com/GlebRadaev/betstream/pkg/auth"
	"github.com/GlebRadaev/betstream/pkg/clients"
	"github.com/GlebRadaev/betstream/pkg/logger"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg       *config.Config
	api       *handlers.Handlers
	srv       *service.Services
	repo      *repo.Repositories
	relay     *outbox.Relay
	publisher *outbox.KafkaPublisher
	reconcile *reconcile.Job

	pool  *pgxpool.Pool
	redis *redis.Client

	errCh chan error
	wg    sync.WaitGroup
	ready atomic.Bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg.LogLvl)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(ctx, pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	matches := catalog.New(cfg.CatalogAddress, clients.NewHTTPClient(clients.WithTimeout(5*time.Second)), catalog.NewRedisCache(redisClient), cfg.MatchCacheTTL)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	conn := pg.New(pool)
	a.cfg = cfg
	a.pool = pool
	a.redis = redisClient
	a.repo = repo.New(conn)
	a.srv = service.New(cfg, a.repo, txManager, matches, jwtService)
	a.api = handlers.New(a.srv, jwtService)
	a.publisher = outbox.NewKafkaPublisher(outbox.NewKafkaWriter(cfg.KafkaBrokers))
	a.relay = outbox.New(a.repo.OutboxRelay, a.publisher, cfg.OutboxInterval, cfg.OutboxBatch, cfg.OutboxWorkers)
	a.reconcile = reconcile.New(a.repo.Reconcile)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	if err = a.startMetricsServer(ctx); err != nil {
		return fmt.Errorf("can't start metrics server: %w", err)
	}
	a.startRelay(ctx)
	if err = a.startReconcile(ctx); err != nil {
		return fmt.Errorf("can't start reconciliation: %w", err)
	}

	a.ready.Store(true)
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := &http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.serve(ctx, "http", server)
	return nil
}

func (a *Application) startMetricsServer(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return err
	}
	server := metrics.NewServer(a.cfg.MetricsAddress, reg, a.health)
	a.serve(ctx, "metrics", server)
	return nil
}

func (a *Application) health(ctx context.Context) error {
	if !a.ready.Load() {
		return errors.New("starting")
	}
	if err := a.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (a *Application) serve(ctx context.Context, name string, server *http.Server) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting server", zap.String("server", name), zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("%s server exited with error: %w", name, err)
		}
	}()
}

func (a *Application) startRelay(ctx context.Context) {
	a.relay.Start(ctx)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.relay.Close()
		if err := a.publisher.Close(); err != nil {
			zap.L().Error("can't close kafka writer", zap.Error(err))
		}
	}()
}

func (a *Application) startReconcile(ctx context.Context) error {
	if err := a.reconcile.Start(ctx, a.cfg.ReconcileSchedule); err != nil {
		return err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()
		a.reconcile.Stop()
	}()
	return nil
}

// closeStores runs after every component has stopped.
func (a *Application) closeStores() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Error("can't close redis client", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()
	a.closeStores()

	return appErr
}
