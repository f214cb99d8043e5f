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

package provider

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
	dbutils "github.com/wso2/trustlens-consent-middleware/internal/system/database/utils"
)

// DBClientInterface is the database facade used by module stores.
type DBClientInterface interface {
	QueryContext(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error)
	ExecuteContext(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (int64, error)
	BeginTx() (dbmodel.TxInterface, error)
	DBType() string
}

// DBClient implements DBClientInterface over sqlx.
type DBClient struct {
	db     *sqlx.DB
	dbType string
}

var _ DBClientInterface = (*DBClient)(nil)

// NewDBClient creates a new DBClient for the given dialect.
func NewDBClient(db *sqlx.DB, dbType string) *DBClient {
	return &DBClient{db: db, dbType: dbType}
}

// DBType returns the dialect of the client.
func (c *DBClient) DBType() string {
	return c.dbType
}

func (c *DBClient) resolve(query dbmodel.DBQuery) string {
	sqlText := query.GetQuery(c.dbType)
	if (c.dbType == "postgres" || c.dbType == "postgresql") && query.PostgresQuery == "" {
		sqlText = dbutils.ConvertToPostgresParams(sqlText)
	}
	return sqlText
}

// QueryContext runs a select and returns each row as a column->value map.
// Byte slices are converted to strings.
func (c *DBClient) QueryContext(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := c.db.QueryxContext(ctx, c.resolve(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s failed: %w", query.GetID(), err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s failed: %w", query.GetID(), err)
	}
	return results, nil
}

// ExecuteContext runs a statement and returns the affected row count.
func (c *DBClient) ExecuteContext(ctx context.Context, query dbmodel.DBQuery, args ...interface{}) (int64, error) {
	result, err := c.db.ExecContext(ctx, c.resolve(query), args...)
	if err != nil {
		return 0, fmt.Errorf("execute %s failed: %w", query.GetID(), err)
	}
	return result.RowsAffected()
}

// BeginTx starts a new transaction.
func (c *DBClient) BeginTx() (dbmodel.TxInterface, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbmodel.NewTx(tx, c.dbType), nil
}
