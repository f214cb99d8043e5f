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
	"encoding/json"
	"fmt"

	"github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
	"github.com/wso2/trustlens-consent-middleware/internal/system/database/provider"
)

const logColumns = "ID, USER_EMAIL, DEV_EMAIL, APP_NAME, PURPOSE, ICON, PRIVACY_POLICY_URL, DATA_CATEGORIES, " +
	"RECORD_TIMESTAMP, COUNTRY, IP_ADDRESS, BROWSER, DEVICE_TYPE, OPERATING_SYSTEM, SUCCESSFUL, RISK_LEVEL, " +
	"CITY, STATE, COUNTRY_CODE, APP_COLOR, ACCESS_FREQUENCY, CREATED_TIME"

// DBQuery objects for all consent log operations
var (
	QueryCreateConsentLog = dbmodel.DBQuery{
		ID:    "CREATE_CONSENT_LOG",
		Query: "INSERT INTO CONSENT_LOG (" + logColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	}

	QueryCreateConsentLogPermission = dbmodel.DBQuery{
		ID:    "CREATE_CONSENT_LOG_PERMISSION",
		Query: "INSERT INTO CONSENT_LOG_PERMISSION (LOG_ID, SEQ, NAME, STATUS) VALUES (?, ?, ?, ?)",
	}

	QueryCreateConsentLogDelivery = dbmodel.DBQuery{
		ID:    "CREATE_CONSENT_LOG_DELIVERY",
		Query: "INSERT INTO CONSENT_LOG_DELIVERY (DELIVERY_ID, LOG_ID, STATUS, ERROR_MESSAGE, CREATED_TIME) VALUES (?, ?, ?, ?, ?)",
	}

	QueryGetConsentLogByID = dbmodel.DBQuery{
		ID:    "GET_CONSENT_LOG_BY_ID",
		Query: "SELECT " + logColumns + " FROM CONSENT_LOG WHERE ID = ?",
	}

	QueryGetConsentLogPermissions = dbmodel.DBQuery{
		ID:    "GET_CONSENT_LOG_PERMISSIONS",
		Query: "SELECT NAME, STATUS FROM CONSENT_LOG_PERMISSION WHERE LOG_ID = ? ORDER BY SEQ",
	}

	QueryGetConsentLogDeliveries = dbmodel.DBQuery{
		ID:    "GET_CONSENT_LOG_DELIVERIES",
		Query: "SELECT DELIVERY_ID, LOG_ID, STATUS, ERROR_MESSAGE, CREATED_TIME FROM CONSENT_LOG_DELIVERY WHERE LOG_ID = ? ORDER BY CREATED_TIME",
	}

	QueryListConsentLogsByUser = dbmodel.DBQuery{
		ID:    "LIST_CONSENT_LOGS_BY_USER",
		Query: "SELECT " + logColumns + " FROM CONSENT_LOG WHERE USER_EMAIL = ? ORDER BY CREATED_TIME DESC LIMIT ? OFFSET ?",
	}

	QueryCountConsentLogsByUser = dbmodel.DBQuery{
		ID:    "COUNT_CONSENT_LOGS_BY_USER",
		Query: "SELECT COUNT(*) AS count FROM CONSENT_LOG WHERE USER_EMAIL = ?",
	}

	QueryListConsentLogs = dbmodel.DBQuery{
		ID:    "LIST_CONSENT_LOGS",
		Query: "SELECT " + logColumns + " FROM CONSENT_LOG ORDER BY CREATED_TIME DESC LIMIT ? OFFSET ?",
	}

	QueryCountConsentLogs = dbmodel.DBQuery{
		ID:    "COUNT_CONSENT_LOGS",
		Query: "SELECT COUNT(*) AS count FROM CONSENT_LOG",
	}
)

// ConsentLogStore defines the data operations of the append-only consent log.
// There are no update or delete operations.
type ConsentLogStore interface {
	Create(tx dbmodel.TxInterface, entry *model.ConsentLogEntry) error
	CreatePermissions(tx dbmodel.TxInterface, logID string, permissions []model.PermissionEntry) error
	CreateDelivery(ctx context.Context, delivery *model.Delivery) error
	GetByID(ctx context.Context, id string) (*model.ConsentLogEntry, error)
	GetPermissions(ctx context.Context, id string) ([]model.PermissionEntry, error)
	GetDeliveries(ctx context.Context, id string) ([]model.Delivery, error)
	List(ctx context.Context, userEmail string, limit, offset int) ([]model.ConsentLogEntry, int, error)
}

type store struct {
	dbClient provider.DBClientInterface
}

// newConsentLogStore creates a new consent log store
func newConsentLogStore(dbClient provider.DBClientInterface) ConsentLogStore {
	return &store{dbClient: dbClient}
}

// Create inserts the consent log row
func (s *store) Create(tx dbmodel.TxInterface, entry *model.ConsentLogEntry) error {
	categories, err := json.Marshal(entry.DataCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal data categories: %w", err)
	}

	_, err = tx.Exec(QueryCreateConsentLog,
		entry.ID,
		entry.UserEmail,
		entry.DevEmail,
		entry.Name,
		entry.Purpose,
		entry.Icon,
		entry.PrivacyPolicyURL,
		string(categories),
		entry.Timestamp,
		entry.Country,
		entry.IPAddress,
		entry.Browser,
		entry.DeviceType,
		entry.OperatingSystem,
		entry.Successful,
		entry.RiskLevel,
		entry.Location.City,
		entry.Location.State,
		entry.Location.CountryCode,
		entry.AppColor,
		entry.AccessFrequency,
		entry.CreatedTime,
	)
	return err
}

// CreatePermissions inserts one row per permission, preserving order
func (s *store) CreatePermissions(tx dbmodel.TxInterface, logID string, permissions []model.PermissionEntry) error {
	for i, p := range permissions {
		if _, err := tx.Exec(QueryCreateConsentLogPermission, logID, i, p.Name, p.Status); err != nil {
			return fmt.Errorf("failed to insert permission %s: %w", p.Name, err)
		}
	}
	return nil
}

// CreateDelivery appends a delivery audit row
func (s *store) CreateDelivery(ctx context.Context, d *model.Delivery) error {
	var errMsg *string
	if d.ErrorMessage != "" {
		errMsg = &d.ErrorMessage
	}
	_, err := s.dbClient.ExecuteContext(ctx, QueryCreateConsentLogDelivery,
		d.DeliveryID, d.LogID, d.Status, errMsg, d.CreatedTime)
	return err
}

// GetByID returns the log entry with id, nil when absent
func (s *store) GetByID(ctx context.Context, id string) (*model.ConsentLogEntry, error) {
	rows, err := s.dbClient.QueryContext(ctx, QueryGetConsentLogByID, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToConsentLogEntry(rows[0]), nil
}

// GetPermissions returns the permissions of a log entry in recorded order
func (s *store) GetPermissions(ctx context.Context, id string) ([]model.PermissionEntry, error) {
	rows, err := s.dbClient.QueryContext(ctx, QueryGetConsentLogPermissions, id)
	if err != nil {
		return nil, err
	}
	perms := make([]model.PermissionEntry, 0, len(rows))
	for _, row := range rows {
		perms = append(perms, model.PermissionEntry{
			Name:   getString(row, "NAME"),
			Status: getString(row, "STATUS"),
		})
	}
	return perms, nil
}

// GetDeliveries returns the delivery audit of a log entry
func (s *store) GetDeliveries(ctx context.Context, id string) ([]model.Delivery, error) {
	rows, err := s.dbClient.QueryContext(ctx, QueryGetConsentLogDeliveries, id)
	if err != nil {
		return nil, err
	}
	deliveries := make([]model.Delivery, 0, len(rows))
	for _, row := range rows {
		deliveries = append(deliveries, model.Delivery{
			DeliveryID:   getString(row, "DELIVERY_ID"),
			LogID:        getString(row, "LOG_ID"),
			Status:       getString(row, "STATUS"),
			ErrorMessage: getString(row, "ERROR_MESSAGE"),
			CreatedTime:  getInt64(row, "CREATED_TIME"),
		})
	}
	return deliveries, nil
}

// List returns a page of log entries, newest first, with the total count.
// An empty userEmail lists every user.
func (s *store) List(ctx context.Context, userEmail string, limit, offset int) ([]model.ConsentLogEntry, int, error) {
	var (
		countRows, rows []map[string]interface{}
		err             error
	)
	if userEmail != "" {
		countRows, err = s.dbClient.QueryContext(ctx, QueryCountConsentLogsByUser, userEmail)
	} else {
		countRows, err = s.dbClient.QueryContext(ctx, QueryCountConsentLogs)
	}
	if err != nil {
		return nil, 0, err
	}
	total := 0
	if len(countRows) > 0 {
		total = int(getInt64(countRows[0], "count"))
	}

	if userEmail != "" {
		rows, err = s.dbClient.QueryContext(ctx, QueryListConsentLogsByUser, userEmail, limit, offset)
	} else {
		rows, err = s.dbClient.QueryContext(ctx, QueryListConsentLogs, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	entries := make([]model.ConsentLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *mapToConsentLogEntry(row))
	}
	return entries, total, nil
}

func mapToConsentLogEntry(row map[string]interface{}) *model.ConsentLogEntry {
	entry := &model.ConsentLogEntry{
		ConsentRecord: model.ConsentRecord{
			ID:               getString(row, "ID"),
			UserEmail:        getString(row, "USER_EMAIL"),
			DevEmail:         getString(row, "DEV_EMAIL"),
			Name:             getString(row, "APP_NAME"),
			Purpose:          getString(row, "PURPOSE"),
			Icon:             getString(row, "ICON"),
			PrivacyPolicyURL: getString(row, "PRIVACY_POLICY_URL"),
			Timestamp:        getString(row, "RECORD_TIMESTAMP"),
			Country:          getString(row, "COUNTRY"),
			IPAddress:        getString(row, "IP_ADDRESS"),
			Browser:          getString(row, "BROWSER"),
			DeviceType:       getString(row, "DEVICE_TYPE"),
			OperatingSystem:  getString(row, "OPERATING_SYSTEM"),
			Successful:       getBool(row, "SUCCESSFUL"),
			RiskLevel:        getString(row, "RISK_LEVEL"),
			Location: model.Location{
				City:        getString(row, "CITY"),
				CountryCode: getString(row, "COUNTRY_CODE"),
			},
			AppColor:        getString(row, "APP_COLOR"),
			AccessFrequency: getString(row, "ACCESS_FREQUENCY"),
			DataCategories:  []string{},
			Permissions:     []model.PermissionEntry{},
		},
		CreatedTime: getInt64(row, "CREATED_TIME"),
	}
	if state, ok := row["STATE"].(string); ok {
		entry.Location.State = &state
	}
	if raw := getString(row, "DATA_CATEGORIES"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &entry.DataCategories)
	}
	return entry
}

func getString(row map[string]interface{}, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func getInt64(row map[string]interface{}, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		var n int64
		fmt.Sscan(v, &n)
		return n
	}
	return 0
}

func getBool(row map[string]interface{}, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return false
}
