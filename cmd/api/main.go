package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-fit/internal/config"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/comitanigiacomo/kanso-fit/internal/core/streaks"
	"github.com/comitanigiacomo/kanso-fit/internal/core/workers"
	"github.com/comitanigiacomo/kanso-fit/internal/logging"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
)

// backends holds the connections opened for the configured storage mode.
// Either may be nil.
type backends struct {
	postgres *sqlx.DB
	sqlite   *sqlx.DB
}

func (b backends) Close() {
	if b.postgres != nil {
		b.postgres.Close()
	}
	if b.sqlite != nil {
		b.sqlite.Close()
	}
}

func connectPostgres(ctx context.Context, conf config.DatabaseConfig) (*sqlx.DB, *repository.PostgresUserDataRepository, error) {
	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", conf.DSN())
	if err != nil {
		return nil, nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	repo := repository.NewPostgresUserDataRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Println("Database connected successfully.")
	return db, repo, nil
}

func openStorage(ctx context.Context, conf *config.Config) (domain.UserDataRepository, backends, error) {
	var b backends

	switch conf.Storage.Mode {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewInMemoryUserDataRepository(), b, nil

	case config.StorageRemote:
		db, repo, err := connectPostgres(ctx, conf.Database)
		if err != nil {
			return nil, b, err
		}
		b.postgres = db
		return repo, b, nil
	}

	sqliteDB, err := repository.OpenSQLite(conf.Storage.LocalDBPath)
	if err != nil {
		return nil, b, err
	}
	b.sqlite = sqliteDB

	local, err := repository.NewSQLiteUserDataRepository(sqliteDB)
	if err != nil {
		b.Close()
		return nil, b, err
	}
	log.Infof("Local store opened at %s", conf.Storage.LocalDBPath)

	if conf.Storage.Mode == config.StorageLocal {
		return local, b, nil
	}

	// hybrid: the device keeps working when the remote store is down at boot
	db, remote, err := connectPostgres(ctx, conf.Database)
	if err != nil {
		log.Warnf("Remote store unavailable, running on the local store only: %v", err)
		return repository.NewLayeredUserDataRepository(local, nil), b, nil
	}
	b.postgres = db
	return repository.NewLayeredUserDataRepository(local, remote), b, nil
}

func main() {
	startTime := time.Now()

	conf, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Critical: invalid configuration: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   conf.Log.File,
		LogToStdout:   conf.Log.ToStdout,
		LogLevel:      conf.Log.Level,
		LogFormatJSON: conf.Log.JSON,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, conns, err := openStorage(ctx, conf)
	if err != nil {
		log.Fatalf("Critical: Failed to open storage (%s): %v", conf.Storage.Mode, err)
	}
	defer conns.Close()

	registry := metrics.NewRegistry()
	metricsManager := metrics.NewManager("kanso", "api", registry)

	var rdb *redis.Client
	if conf.Redis.Enabled {
		rdb, err = cache.NewRedisClient(cache.RedisOptions{
			Host:     conf.Redis.Host,
			Port:     conf.Redis.Port,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		if err != nil {
			log.Fatalf("Critical: %v", err)
		}
		defer rdb.Close()
		log.Println("Redis connected successfully.")
	}

	if conf.Cache.Enabled {
		var c cache.Cache
		if rdb != nil {
			c = cache.NewRedisCache(rdb)
		} else {
			c = cache.NewLocalCache(conf.Cache.SizeMB)
		}
		store = repository.NewCachedUserDataRepository(store, c, conf.Cache.TTL, metricsManager)
	}

	calendar, err := streaks.LoadCalendar(conf.Streaks.Timezone)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}

	streakService := services.NewStreakService(store, calendar, conf.Streaks.ConsistencyWindow, domain.SystemClock{})

	streakWorker := workers.NewStreakWorker(streakService, metricsManager)
	streakWorker.Start(ctx)

	workoutService := services.NewWorkoutService(store, streakWorker)
	nutritionService := services.NewNutritionService(store, streakWorker)
	statsService := services.NewStatsService(store, calendar)
	dashboardService := services.NewDashboardService(store, streakService)

	deps := adapterHTTP.RouterDependencies{
		WorkoutHandler:   adapterHTTP.NewWorkoutHandler(workoutService),
		NutritionHandler: adapterHTTP.NewNutritionHandler(nutritionService),
		StreakHandler:    adapterHTTP.NewStreakHandler(streakService),
		StatsHandler:     adapterHTTP.NewStatsHandler(statsService, streakService),
		DashboardHandler: adapterHTTP.NewDashboardHandler(dashboardService, streakService),
		DB:               conns.postgres,
		Redis:            rdb,
		Metrics:          metricsManager,
		Gatherer:         registry,
		StartTime:        startTime,
	}

	if conf.RateLimit.Enabled {
		if rdb != nil {
			deps.RateCounter = middleware.NewRedisRateCounter(rdb)
		} else {
			deps.RateCounter = middleware.NewLocalRateCounter(1)
		}
		deps.RateLimit = conf.RateLimit.Requests
		deps.RateWindow = conf.RateLimit.Window
	}

	if !log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := adapterHTTP.NewRouter(deps)

	srv := &http.Server{
		Addr:         ":" + conf.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Fit running on http://localhost:%s (storage: %s)", conf.Server.Port, conf.Storage.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
