/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

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

	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
	"github.com/wso2/trustlens-consent-middleware/internal/system/middleware"
	"github.com/wso2/trustlens-consent-middleware/internal/web"
	"github.com/wso2/trustlens-consent-middleware/internal/wizard"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

const janitorInterval = time.Minute

func main() {
	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.GetLogger()
	logger.Info("Starting TrustLens consent middleware...",
		log.String("version", version),
		log.String("build_date", buildDate))

	// Priority: CONFIG_PATH env var > repository/conf/deployment.yaml > cmd/server/repository/conf/deployment.yaml
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Error(err))
	}

	if err := log.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stdout); err != nil {
		logger.Fatal("Failed to initialize logger", log.Error(err))
	}
	logger = log.GetLogger()
	logger.Info("Configuration loaded successfully", log.String("log_level", cfg.Logging.Level))

	db, err := database.Initialize(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.HealthCheck(ctx); err != nil {
		cancel()
		logger.Fatal("Database health check failed", log.Error(err))
	}
	cancel()
	logger.Info("Database connection established successfully")

	provider.InitDBProvider(db, cfg.Database.Type)
	dbClient, err := provider.GetDBProvider().GetConsentLogDBClient()
	if err != nil {
		logger.Fatal("Failed to get consent log DB client", log.Error(err))
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	sessions, closeSessions, err := wizard.NewSessionStore(appCtx, &cfg.Session)
	if err != nil {
		logger.Fatal("Failed to initialize session store", log.Error(err))
	}
	go wizard.RunJanitor(appCtx, sessions, janitorInterval)
	logger.Info("Session store initialized", log.String("store", cfg.Session.Store))

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.CorrelationIDMiddleware(), metrics.MetricsMiddleware())
	if cfg.CORS.Enabled {
		engine.Use(middleware.CORSMiddleware(middleware.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
		}))
	}
	engine.SetHTMLTemplate(web.Templates())

	registerServices(engine, cfg, dbClient, db, sessions)

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.Info("Starting HTTP server...", log.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", log.Error(err))
		}
	}()

	logger.Info("Server is running", log.String("address", serverAddr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	}

	stopApp()
	unregisterServices(closeSessions)

	logger.Info("Server exited gracefully")
}
