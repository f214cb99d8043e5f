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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
)

var testQuery = dbmodel.DBQuery{
	ID:    "TEST_SELECT",
	Query: "SELECT ID, NAME FROM T WHERE ID = ?",
}

func newMockClient(t *testing.T, dbType string) (*DBClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDBClient(sqlx.NewDb(db, "sqlmock"), dbType), mock
}

func TestDBClient_QueryContextConvertsBytes(t *testing.T) {
	client, mock := newMockClient(t, "mysql")
	mock.ExpectQuery(testQuery.Query).WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME"}).AddRow([]byte("a"), "alpha"))

	rows, err := client.QueryContext(context.Background(), testQuery, "a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0]["ID"])
	assert.Equal(t, "alpha", rows[0]["NAME"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBClient_PostgresPlaceholders(t *testing.T) {
	client, mock := newMockClient(t, "postgres")
	mock.ExpectExec("SELECT ID, NAME FROM T WHERE ID = $1").WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := client.ExecuteContext(context.Background(), testQuery, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteTransaction_RollsBackOnFailure(t *testing.T) {
	client, mock := newMockClient(t, "mysql")
	insert := dbmodel.DBQuery{ID: "INS", Query: "INSERT INTO T (ID) VALUES (?)"}

	mock.ExpectBegin()
	mock.ExpectExec(insert.Query).WithArgs("1").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insert.Query).WithArgs("2").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := dbmodel.ExecuteTransaction(client, []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error { _, err := tx.Exec(insert, "1"); return err },
		func(tx dbmodel.TxInterface) error { _, err := tx.Exec(insert, "2"); return err },
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query 1 failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
