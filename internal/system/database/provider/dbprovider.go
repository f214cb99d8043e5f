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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"fmt"
	"sync"

	"github.com/wso2/trustlens-consent-middleware/internal/system/database"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
)

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetConsentLogDBClient() (DBClientInterface, error)
}

// DBProviderCloser is a separate interface for closing the provider.
// Only the lifecycle manager should use this interface.
type DBProviderCloser interface {
	Close() error
}

type dbProvider struct {
	client DBClientInterface
	mutex  sync.RWMutex
	db     *database.DB
	dbType string
}

var (
	instance *dbProvider
	once     sync.Once
)

// InitDBProvider initializes the singleton instance of DBProvider with the database connection.
func InitDBProvider(db *database.DB, dbType string) {
	once.Do(func() {
		instance = &dbProvider{db: db, dbType: dbType}
		instance.initializeClient()
	})
}

// GetDBProvider returns the instance of DBProvider.
func GetDBProvider() DBProviderInterface {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetDBProviderCloser returns the DBProvider with closing capability.
// This should only be called from the main lifecycle manager.
func GetDBProviderCloser() DBProviderCloser {
	if instance == nil {
		panic("DBProvider not initialized. Call InitDBProvider first.")
	}
	return instance
}

// GetConsentLogDBClient returns the client for the consent log datasource.
func (d *dbProvider) GetConsentLogDBClient() (DBClientInterface, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	if d.client == nil {
		return nil, fmt.Errorf("consent log DB client is closed")
	}
	return d.client, nil
}

func (d *dbProvider) initializeClient() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))

	if d.db == nil {
		logger.Fatal("Database connection is nil")
		return
	}

	d.client = NewDBClient(d.db.DB, d.dbType)
	logger.Debug("Consent log DB client initialized", log.String("db_type", d.dbType))
}

// Close drops the client and closes the underlying connection pool.
func (d *dbProvider) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))
	logger.Debug("Closing database connections")

	d.client = nil
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
