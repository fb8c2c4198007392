package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-slab-ws/internal/config"
	"go-slab-ws/internal/handler"
	"go-slab-ws/internal/logger"
	"go-slab-ws/internal/metrics"
	"go-slab-ws/internal/middleware"
	"go-slab-ws/internal/repository"
	"go-slab-ws/internal/service"
	"go-slab-ws/internal/session"
	"go-slab-ws/internal/ws"
	"go-slab-ws/pkg/database"
	"go-slab-ws/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if cfg.JWT.Secret == config.DefaultJWTSecret && !cfg.IsDev() {
		zl.Warn("JWT_SECRET is the built-in default; set it in production")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, zl)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	// 3. Metrics and WebSocket hub
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	wsHub := ws.NewHub(zl)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	sessions := session.NewStore(cfg.JWT.TTL)
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := repository.NewUserRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	slabRepo := repository.NewSlabRepo(db)
	summaryRepo := repository.NewSummaryRepo(db)

	authService := service.NewAuthService(userRepo, sessions, tokens, m, zl)
	userService := service.NewUserService(userRepo, sessions)
	batchService := service.NewBatchService(batchRepo, sessions, wsHub, m)
	slabService := service.NewSlabService(db, batchRepo, slabRepo, sessions, wsHub, m, zl)
	exportService := service.NewExportService(batchRepo, slabRepo, m, zl)
	dashService := service.NewDashboardService(batchRepo, summaryRepo)

	seedAdmin(userService, cfg, zl)

	handlers := &handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Users:     handler.NewUserHandler(userService),
		Batches:   handler.NewBatchHandler(batchService),
		Slabs:     handler.NewSlabHandler(slabService),
		Reports:   handler.NewReportHandler(exportService),
		Dashboard: handler.NewDashboardHandler(dashService),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Slab Measurement Entry v1.0",
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS
	if cfg.Metrics.Enabled {
		app.Use(middleware.Metrics(m))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "unavailable", "error": "Database connection error"})
		}
		return c.JSON(fiber.Map{"status": "ok", "sessions": sessions.Len(), "ws_clients": wsHub.Count()})
	})

	// 6. Routes
	handlers.Register(app.Group("/api/v1"), middleware.RequireAuth(tokens, sessions))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		zl.Info("listening", zap.String("port", cfg.HTTP.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.HTTP.Port); err != nil {
			zl.Panic("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zl.Fatal("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zl.Info("server exited")
}

// seedAdmin creates the configured admin account on first start
func seedAdmin(users service.UserService, cfg config.Config, zl *zap.Logger) {
	if cfg.Admin.Password == "" {
		return
	}
	created, err := users.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		zl.Warn("failed to seed admin user", zap.String("username", cfg.Admin.Username), zap.Error(err))
		return
	}
	if created {
		zl.Info("admin user created", zap.String("username", cfg.Admin.Username))
	}
}
