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

package stores

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
)

func TestStoreRegistry_ExecuteTransactionCommits(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	client := provider.NewDBClient(sqlx.NewDb(db, "sqlmock"), "mysql")
	registry := NewStoreRegistry(client, nil)
	q := dbmodel.DBQuery{ID: "INS", Query: "INSERT INTO T VALUES (?)"}

	mock.ExpectBegin()
	mock.ExpectExec(q.Query).WithArgs(1).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = registry.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error { _, err := tx.Exec(q, 1); return err },
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
