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

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	consentmodel "github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

// MockClient is a mock implementation of backend.ClientInterface
type MockClient struct {
	mock.Mock
}

var _ backend.ClientInterface = (*MockClient)(nil)

func (m *MockClient) GetPermissions(ctx context.Context, apiKey string) (permission.Request, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(permission.Request), args.Error(1)
}

func (m *MockClient) GetDeveloperProfile(ctx context.Context, apiKey string) (*profile.DeveloperProfile, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.DeveloperProfile), args.Error(1)
}

func (m *MockClient) GetUserProfile(ctx context.Context, email string) (*profile.UserProfile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.UserProfile), args.Error(1)
}

func (m *MockClient) SignedUp(ctx context.Context, userEmail, devEmail string) (bool, error) {
	args := m.Called(ctx, userEmail, devEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) LogConsent(ctx context.Context, record *consentmodel.ConsentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockClient) SignUp(ctx context.Context, req *backend.SignUpRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
