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

// Package stores holds the store registry shared by the service layer.
package stores

import (
	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
)

// StoreRegistry holds references to all stores in the application.
// Stores are held as interface{} to avoid circular dependencies; services
// type-assert to the store interfaces they need.
type StoreRegistry struct {
	dbClient provider.DBClientInterface

	ConsentLog interface{} // consentlog.consentLogStore
}

// NewStoreRegistry creates a new store registry with the initialized stores
func NewStoreRegistry(dbClient provider.DBClientInterface, consentLogStore interface{}) *StoreRegistry {
	return &StoreRegistry{
		dbClient:   dbClient,
		ConsentLog: consentLogStore,
	}
}

// ExecuteTransaction executes multiple store operations in a single transaction
func (r *StoreRegistry) ExecuteTransaction(queries []func(tx dbmodel.TxInterface) error) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "StoreRegistry"))
	logger.Debug("Starting transaction", log.Int("query_count", len(queries)))

	if err := dbmodel.ExecuteTransaction(r.dbClient, queries); err != nil {
		logger.Warn("Transaction failed", log.Error(err))
		return err
	}

	logger.Debug("Transaction committed successfully", log.Int("query_count", len(queries)))
	return nil
}
