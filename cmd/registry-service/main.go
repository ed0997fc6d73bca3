package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civicboard/internal/common/cache"
	commonmw "civicboard/internal/common/http/middleware"
	"civicboard/internal/registry/controller"
	"civicboard/internal/registry/repository"
	"civicboard/internal/registry/service"
	"civicboard/pkg/utils/logger"
	"civicboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/registry_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	pathIsExplicit := *configPath != defaultConfigPath
	appCfg, err := loadAppConfig(*configPath, pathIsExplicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	response.SetExposeDetails(appCfg.Mode == "development")
	if appCfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var store repository.ProblemStore
	switch appCfg.Registry.Store {
	case storeRedis:
		redisClient, err := cache.NewRedisClient(&appCfg.Redis)
		if err != nil {
			logger.Error(context.Background(), "init redis failed", zap.Error(err))
			return
		}
		defer func() {
			_ = redisClient.Close()
		}()
		store = repository.NewRedisStore(redisClient, appCfg.Registry.RedisKeyPrefix)
	default:
		store = repository.NewMemoryStore()
	}

	problemService := service.NewProblemService(store)
	httpServer := buildHTTPServer(appCfg, problemService)

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "registry http server started",
			zap.String("addr", appCfg.Server.Addr),
			zap.String("mode", appCfg.Mode),
			zap.String("store", appCfg.Registry.Store),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}

func buildHTTPServer(cfg *AppConfig, problemService *service.ProblemService) *http.Server {
	router := gin.New()
	router.Use(commonmw.RecoveryMiddleware())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(requestLogger())
	router.Use(commonmw.MetricsMiddleware())

	problemController := controller.NewProblemController(problemService)

	api := router.Group(cfg.Registry.RoutePrefix)
	api.GET("/problems", problemController.List)
	api.GET("/problems/:id", problemController.Get)
	api.POST("/problems", problemController.Create)
	api.PUT("/problems/:id", problemController.Update)
	api.POST("/problems/:id/upvote", problemController.Upvote)
	api.PATCH("/problems/:id/status", problemController.ChangeStatus)
	api.DELETE("/problems/:id", problemController.Delete)
	api.GET("/stats", problemController.Stats)
	api.GET("/health", problemController.Health)

	router.GET("/metrics", commonmw.MetricsHandler())

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
