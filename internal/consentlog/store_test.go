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

package consentlog

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
)

func newMockDB(t *testing.T) (*provider.DBClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return provider.NewDBClient(sqlx.NewDb(db, "sqlmock"), "mysql"), mock
}

func anyArgs(n int) []driver.Value {
	args := make([]driver.Value, n)
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	return args
}

var logColumnNames = []string{
	"ID", "USER_EMAIL", "DEV_EMAIL", "APP_NAME", "PURPOSE", "ICON", "PRIVACY_POLICY_URL", "DATA_CATEGORIES",
	"RECORD_TIMESTAMP", "COUNTRY", "IP_ADDRESS", "BROWSER", "DEVICE_TYPE", "OPERATING_SYSTEM", "SUCCESSFUL",
	"RISK_LEVEL", "CITY", "STATE", "COUNTRY_CODE", "APP_COLOR", "ACCESS_FREQUENCY", "CREATED_TIME",
}

func logRow(id string) []driver.Value {
	return []driver.Value{
		id, "jane@example.com", "dev@acme.io", "Acme", "Ride sharing", "", "", []byte(`["basic","personal"]`),
		"2026-10-14T09:30:15Z", "Sri Lanka", "203.0.113.9", "Safari", "Mobile", "iOS", int64(1),
		"Low", "Colombo", nil, "LK", "", "", int64(1760000000000),
	}
}

func TestStore_GetByID(t *testing.T) {
	client, mock := newMockDB(t)
	s := newConsentLogStore(client)

	mock.ExpectQuery(QueryGetConsentLogByID.Query).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(logColumnNames).AddRow(logRow("r1")...))

	entry, err := s.GetByID(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "r1", entry.ID)
	assert.Equal(t, []string{"basic", "personal"}, entry.DataCategories)
	assert.True(t, entry.Successful)
	assert.Nil(t, entry.Location.State)
	assert.Equal(t, int64(1760000000000), entry.CreatedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetByIDMissing(t *testing.T) {
	client, mock := newMockDB(t)
	s := newConsentLogStore(client)

	mock.ExpectQuery(QueryGetConsentLogByID.Query).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(logColumnNames))

	entry, err := s.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_ListByUser(t *testing.T) {
	client, mock := newMockDB(t)
	s := newConsentLogStore(client)

	mock.ExpectQuery(QueryCountConsentLogsByUser.Query).WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(QueryListConsentLogsByUser.Query).WithArgs("jane@example.com", 2, 0).
		WillReturnRows(sqlmock.NewRows(logColumnNames).AddRow(logRow("r1")...).AddRow(logRow("r2")...))

	entries, total, err := s.List(context.Background(), "jane@example.com", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "r2", entries[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetPermissionsAndDeliveries(t *testing.T) {
	client, mock := newMockDB(t)
	s := newConsentLogStore(client)

	mock.ExpectQuery(QueryGetConsentLogPermissions.Query).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"NAME", "STATUS"}).AddRow("email", "Granted").AddRow("name", "Granted"))
	mock.ExpectQuery(QueryGetConsentLogDeliveries.Query).WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"DELIVERY_ID", "LOG_ID", "STATUS", "ERROR_MESSAGE", "CREATED_TIME"}).
			AddRow("d1", "r1", "FAILED", "backend /middleware returned status 500", int64(5)))

	perms, err := s.GetPermissions(context.Background(), "r1")
	require.NoError(t, err)
	assert.Len(t, perms, 2)

	deliveries, err := s.GetDeliveries(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "FAILED", deliveries[0].Status)
	assert.Equal(t, int64(5), deliveries[0].CreatedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}
