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

// Package consentlog keeps the append-only log of completed consent flows and
// forwards each record to the backend.
package consentlog

import (
	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
	"github.com/wso2/trustlens-consent-middleware/internal/system/stores"
)

// NewStore creates the consent log store for registration in the store registry.
func NewStore(dbClient provider.DBClientInterface) ConsentLogStore {
	return newConsentLogStore(dbClient)
}

// Initialize sets up the consent log module and registers its routes
func Initialize(api *gin.RouterGroup, registry *stores.StoreRegistry, backendClient backend.ClientInterface) ConsentLogServiceInterface {
	service := newConsentLogService(registry, backendClient)
	handler := newConsentLogHandler(service)

	registerRoutes(api, handler)

	return service
}

func registerRoutes(api *gin.RouterGroup, handler *consentLogHandler) {
	logs := api.Group("/consent-logs")
	{
		logs.GET("", handler.listConsentLogs)
		logs.GET("/:id", handler.getConsentLog)
	}
}
