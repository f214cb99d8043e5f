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
	"fmt"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	dbmodel "github.com/wso2/trustlens-consent-middleware/internal/system/database/model"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
	"github.com/wso2/trustlens-consent-middleware/internal/system/stores"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

// ConsentLogServiceInterface defines the consent log operations
type ConsentLogServiceInterface interface {
	Record(ctx context.Context, record *model.ConsentRecord) *serviceerror.ServiceError
	GetConsentLog(ctx context.Context, id string) (*model.ConsentLogEntry, *serviceerror.ServiceError)
	ListConsentLogs(ctx context.Context, userEmail string, limit, offset int) (*model.ListResponse, *serviceerror.ServiceError)
}

type consentLogService struct {
	stores  *stores.StoreRegistry
	backend backend.ClientInterface
	logger  *log.Logger
}

// newConsentLogService creates a new consent log service
func newConsentLogService(registry *stores.StoreRegistry, backendClient backend.ClientInterface) ConsentLogServiceInterface {
	return &consentLogService{
		stores:  registry,
		backend: backendClient,
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "ConsentLogService")),
	}
}

func (s *consentLogService) store() ConsentLogStore {
	return s.stores.ConsentLog.(ConsentLogStore)
}

// Record persists a consent record locally and forwards it to the backend once.
// A failed forward is logged and audited but not returned; a failed local write
// is returned after the forward has been attempted.
func (s *consentLogService) Record(ctx context.Context, record *model.ConsentRecord) *serviceerror.ServiceError {
	if record == nil || record.ID == "" {
		return serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "consent record ID is required")
	}
	store := s.store()

	entry := &model.ConsentLogEntry{ConsentRecord: *record, CreatedTime: utils.GetCurrentTimeMillis()}
	persistErr := s.stores.ExecuteTransaction([]func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return store.Create(tx, entry)
		},
		func(tx dbmodel.TxInterface) error {
			return store.CreatePermissions(tx, entry.ID, entry.Permissions)
		},
	})
	if persistErr != nil {
		s.logger.Error("Failed to persist consent log", log.String("log_id", record.ID), log.Error(persistErr))
	}

	delivery := &model.Delivery{
		DeliveryID: utils.GenerateUUID(),
		LogID:      record.ID,
		Status:     model.DeliveryDelivered,
	}
	if err := s.backend.LogConsent(ctx, record); err != nil {
		metrics.RecordDeliveryFailure()
		s.logger.Warn("Backend did not accept consent record", log.String("log_id", record.ID), log.Error(err))
		delivery.Status = model.DeliveryFailed
		delivery.ErrorMessage = err.Error()
	}

	if persistErr != nil {
		return serviceerror.CustomServiceError(serviceerror.DatabaseError,
			fmt.Sprintf("failed to persist consent log: %v", persistErr))
	}

	delivery.CreatedTime = utils.GetCurrentTimeMillis()
	if err := store.CreateDelivery(ctx, delivery); err != nil {
		s.logger.Error("Failed to append delivery audit", log.String("log_id", record.ID), log.Error(err))
	}

	s.logger.Info("Consent recorded",
		log.String("log_id", record.ID),
		log.String("delivery_status", delivery.Status))
	return nil
}

// GetConsentLog returns a stored record with its permissions and delivery audit
func (s *consentLogService) GetConsentLog(ctx context.Context, id string) (*model.ConsentLogEntry, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("id", id); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	}
	store := s.store()

	entry, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if entry == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ResourceNotFoundError,
			fmt.Sprintf("consent log %s not found", id))
	}

	if entry.Permissions, err = store.GetPermissions(ctx, id); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	if entry.Deliveries, err = store.GetDeliveries(ctx, id); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}
	return entry, nil
}

// ListConsentLogs returns a page of stored records, newest first
func (s *consentLogService) ListConsentLogs(ctx context.Context, userEmail string, limit, offset int) (*model.ListResponse, *serviceerror.ServiceError) {
	if err := utils.ValidatePagination(limit, offset); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	}

	entries, total, err := s.store().List(ctx, userEmail, limit, offset)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, err.Error())
	}

	return &model.ListResponse{
		Data: entries,
		Metadata: model.ListMetadata{
			Total:  total,
			Limit:  limit,
			Offset: offset,
			Count:  len(entries),
		},
	}, nil
}
