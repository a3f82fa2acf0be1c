package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/configs"
	database "cyberquiz_backend/internals/databases"
	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	"cyberquiz_backend/internals/features/progress/progress/scheduler"
	helper "cyberquiz_backend/internals/helpers"
	middlewares "cyberquiz_backend/internals/middlewares"
	routes "cyberquiz_backend/internals/route"
	"cyberquiz_backend/internals/seeds"
)

func main() {
	seedOnly := flag.Bool("seed", false, "load the quiz catalog from SEED_FILE and exit")
	flag.Parse()

	configs.LoadEnv()
	cfg := configs.Load()

	// DB connect + pool + schema
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("[ERROR] database: %v", err)
	}
	database.TunePool(db, cfg)
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("[ERROR] migrate: %v", err)
	}

	if *seedOnly {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := seeds.RunAllSeeds(ctx, db, cfg.SeedFile); err != nil {
			log.Fatalf("[ERROR] seed: %v", err)
		}
		database.Close(db)
		return
	}

	rdb, lb := connectLeaderboardCache(cfg)

	// scheduler after DB is ready
	var reconcile *cron.Cron
	if cfg.ReconcileSchedule != "" {
		reconcile, err = scheduler.StartReconcileCron(db, cfg.ReconcileSchedule, lb)
		if err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}

	app := newApp(cfg, db, lb)

	// Keep-Alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Printf("[INFO] listening on :%s (driver=%s)", cfg.Port, cfg.DBDriver)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown, then close the pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if reconcile != nil {
		select {
		case <-reconcile.Stop().Done():
		case <-ctx.Done():
		}
	}
	_ = app.ShutdownWithContext(ctx)
	if rdb != nil {
		_ = rdb.Close()
	}
	database.Close(db)
}

func newApp(cfg *configs.Config, db *gorm.DB, lb *cache.LeaderboardCache) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.FromServiceError(c, err)
		},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, cfg.CorsOrigins, cfg.RequestTimeout)

	routes.SetupRoutes(app, db, lb, cfg.RateLimitMax)
	return app
}

// connectLeaderboardCache returns a nil cache when Redis is not configured or
// not reachable; the leaderboard then reads straight from the database.
func connectLeaderboardCache(cfg *configs.Config) (*redis.Client, *cache.LeaderboardCache) {
	if cfg.RedisAddr == "" {
		log.Println("[INFO] REDIS_ADDR not set, leaderboard cache disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] redis %s unreachable, leaderboard cache disabled: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil, nil
	}
	log.Printf("[INFO] leaderboard cache on redis %s ttl=%s", cfg.RedisAddr, cfg.LeaderboardCacheTTL)
	return rdb, cache.NewLeaderboardCache(rdb, cfg.LeaderboardCacheTTL)
}
