package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/conf"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/workerpool"
	"github.com/lk2023060901/internet-data-toolkit/internal/server"
	"github.com/lk2023060901/internet-data-toolkit/internal/tools"
)

var (
	configFile = flag.String("config", "config.yaml", "config file path")
	envDir     = flag.String("env-dir", ".", "directory holding .env files")
)

func main() {
	flag.Parse()

	envFiles, err := conf.LoadEnv(*envDir)
	if err != nil {
		panic("failed to load env files: " + err.Error())
	}

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := config.Log.Logger()
	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	logger.SetGlobal(log)

	log.Info("config loaded successfully",
		zap.String("config", *configFile),
		zap.Strings("env_files", envFiles))

	toolkit, err := tools.New(config, log)
	if err != nil {
		log.Fatal("failed to build toolkit", zap.Error(err))
	}

	pool, err := workerpool.New(&config.Server.Batch, log.Logger)
	if err != nil {
		log.Fatal("failed to create worker pool", zap.Error(err))
	}
	defer pool.Shutdown()

	httpServer := server.NewHTTPServer(config, log, toolkit, pool)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
