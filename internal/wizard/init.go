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

// Package wizard runs the two-step consent popup: account confirmation and
// consent collection, ending in one bridge message and one consent record.
package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/bridge"
	"github.com/wso2/trustlens-consent-middleware/internal/consentlog"
	"github.com/wso2/trustlens-consent-middleware/internal/geo"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
)

// Dependencies groups the collaborators of the wizard module.
type Dependencies struct {
	Sessions   SessionStore
	Backend    backend.ClientInterface
	Geo        geo.LocatorInterface
	ConsentLog consentlog.ConsentLogServiceInterface
	Bridge     *bridge.Bridge
	Options    Options
}

// Initialize sets up the wizard module. The popup pages are registered on
// root and the JSON API on api.
func Initialize(root gin.IRoutes, api *gin.RouterGroup, deps Dependencies) WizardServiceInterface {
	service := newWizardService(deps.Sessions, deps.Backend, deps.Geo, deps.ConsentLog, deps.Bridge, deps.Options)
	handler := newWizardHandler(service, service.opts.MaxUploadBytes)

	registerRoutes(root, api, handler)

	return service
}

func registerRoutes(root gin.IRoutes, api *gin.RouterGroup, handler *wizardHandler) {
	sessions := api.Group("/wizard/sessions")
	{
		sessions.POST("", handler.createSession)
		sessions.GET("/:id", handler.getSession)
		sessions.POST("/:id/continue", handler.continueSession)
		sessions.PUT("/:id/fields", handler.updateField)
		sessions.POST("/:id/photo", handler.uploadPhoto)
		sessions.POST("/:id/grant", handler.grant)
		sessions.POST("/:id/back", handler.goBack)
		sessions.GET("/:id/result", handler.getResult)
	}

	root.GET("/middleware", handler.startPopup)
	root.GET("/middleware/:id", handler.showPopup)
	root.POST("/middleware/:id/continue", handler.continuePopup)
	root.POST("/middleware/:id/grant", handler.grantPopup)
	root.POST("/middleware/:id/back", handler.backPopup)
	root.GET("/middleware/:id/complete", handler.completePopup)
}

// NewSessionStore creates the store selected in config. The returned func
// releases its connections.
func NewSessionStore(ctx context.Context, cfg *config.SessionConfig) (SessionStore, func() error, error) {
	switch cfg.Store {
	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisStore(client, cfg.Redis.KeyPrefix, cfg.TTL), client.Close, nil
	case config.SessionStoreMemory, "":
		return NewMemoryStore(cfg.TTL), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store: %s", cfg.Store)
	}
}

// RunJanitor purges expired in-memory sessions every interval until ctx is
// done. Redis expires keys on its own, so other stores return immediately.
func RunJanitor(ctx context.Context, store SessionStore, interval time.Duration) {
	mem, ok := store.(*memoryStore)
	if !ok {
		return
	}
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "SessionJanitor"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.purge(); n > 0 {
				logger.Debug("Purged expired sessions", log.Int("count", n))
			}
		}
	}
}
