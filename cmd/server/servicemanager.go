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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/bridge"
	"github.com/wso2/trustlens-consent-middleware/internal/consentlog"
	"github.com/wso2/trustlens-consent-middleware/internal/geo"
	"github.com/wso2/trustlens-consent-middleware/internal/registration"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
	"github.com/wso2/trustlens-consent-middleware/internal/system/stores"
	"github.com/wso2/trustlens-consent-middleware/internal/wizard"
)

const healthCheckTimeout = 2 * time.Second

// registerServices wires every module onto the engine.
func registerServices(
	engine *gin.Engine,
	cfg *config.Config,
	dbClient provider.DBClientInterface,
	db *database.DB,
	sessions wizard.SessionStore,
) {
	logger := log.GetLogger()
	api := engine.Group(constants.APIBasePath)

	backendClient := backend.NewClient(&cfg.Backend)
	registry := stores.NewStoreRegistry(dbClient, consentlog.NewStore(dbClient))

	consentLogService := consentlog.Initialize(api, registry, backendClient)
	logger.Info("Consent log module initialized")

	br := bridge.New(&cfg.Bridge, sessions)
	bridge.Initialize(engine, api, br, cfg.Server.PublicURL)
	logger.Info("Bridge module initialized", log.Int("allowed_origins", len(cfg.Bridge.AllowedOrigins)))

	wizard.Initialize(engine, api, wizard.Dependencies{
		Sessions:   sessions,
		Backend:    backendClient,
		Geo:        geo.NewClient(&cfg.Geo),
		ConsentLog: consentLogService,
		Bridge:     br,
		Options: wizard.Options{
			MaxUploadBytes: cfg.Wizard.MaxUploadBytes,
			RiskLevel:      cfg.Wizard.RiskLevel,
		},
	})
	logger.Info("Wizard module initialized")

	registration.Initialize(api, backendClient)
	logger.Info("Registration module initialized")

	engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/metrics", metrics.Handler())
}

// unregisterServices releases module resources during shutdown.
func unregisterServices(closeSessions func() error) {
	logger := log.GetLogger()
	if err := closeSessions(); err != nil {
		logger.Error("Failed to close session store", log.Error(err))
	}
	if err := provider.GetDBProviderCloser().Close(); err != nil {
		logger.Error("Failed to close database", log.Error(err))
	}
}
