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

// Package backend is the client of the TrustLens backend REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	consentmodel "github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
	"github.com/wso2/trustlens-consent-middleware/internal/system/middleware"
)

// Backend endpoints.
const (
	PathGetPermissions   = "/getPerms"
	PathGetDevProfile    = "/getDevProfile"
	PathUserProfile      = "/userProfile"
	PathSignedUp         = "/signedUp"
	PathMiddleware       = "/middleware"
	PathSignUp           = "/signUp"
	maxResponseBodyBytes = 4 << 20
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s returned status %d", e.Endpoint, e.StatusCode)
}

// IsStatusError reports whether err is, or wraps, a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// SignUpRequest is the body of /signUp.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// ClientInterface is the set of backend calls made by the middleware.
type ClientInterface interface {
	GetPermissions(ctx context.Context, apiKey string) (permission.Request, error)
	GetDeveloperProfile(ctx context.Context, apiKey string) (*profile.DeveloperProfile, error)
	GetUserProfile(ctx context.Context, email string) (*profile.UserProfile, error)
	SignedUp(ctx context.Context, userEmail, devEmail string) (bool, error)
	LogConsent(ctx context.Context, record *consentmodel.ConsentRecord) error
	SignUp(ctx context.Context, req *SignUpRequest) error
}

// Client calls the backend over HTTP. Every call is a JSON POST.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates a backend client from config.
func NewClient(cfg *config.BackendConfig) *Client {
	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BackendClient")),
	}
}

// GetPermissions returns the fields the developer behind apiKey requests.
func (c *Client) GetPermissions(ctx context.Context, apiKey string) (permission.Request, error) {
	var perms permission.Request
	if err := c.post(ctx, PathGetPermissions, map[string]string{"key": apiKey}, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// GetDeveloperProfile returns the profile of the developer behind apiKey.
func (c *Client) GetDeveloperProfile(ctx context.Context, apiKey string) (*profile.DeveloperProfile, error) {
	var dev profile.DeveloperProfile
	if err := c.post(ctx, PathGetDevProfile, map[string]string{"key": apiKey}, &dev); err != nil {
		return nil, err
	}
	return &dev, nil
}

// GetUserProfile returns the stored profile of email, nil when the backend has none.
func (c *Client) GetUserProfile(ctx context.Context, email string) (*profile.UserProfile, error) {
	var resp struct {
		User *profile.UserProfile `json:"user"`
	}
	if err := c.post(ctx, PathUserProfile, map[string]string{"email": email}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// SignedUp reports whether userEmail already has an account with devEmail's application.
func (c *Client) SignedUp(ctx context.Context, userEmail, devEmail string) (bool, error) {
	var resp struct {
		Found bool `json:"found"`
	}
	body := map[string]string{"userEmail": userEmail, "devEmail": devEmail}
	if err := c.post(ctx, PathSignedUp, body, &resp); err != nil {
		return false, err
	}
	return resp.Found, nil
}

// LogConsent forwards a consent record. The response body is ignored.
func (c *Client) LogConsent(ctx context.Context, record *consentmodel.ConsentRecord) error {
	return c.post(ctx, PathMiddleware, record, nil)
}

// SignUp creates a TrustLens account.
func (c *Client) SignUp(ctx context.Context, req *SignUpRequest) error {
	return c.post(ctx, PathSignUp, req, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	url := c.baseURL + endpoint

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if correlationID := middleware.CorrelationID(ctx); correlationID != "" {
		req.Header.Set(constants.CorrelationIDHeaderName, correlationID)
	}

	c.logger.Debug("Calling backend", log.String("endpoint", endpoint))

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		metrics.RecordExternalOp("backend"+endpoint, duration, false)
		c.logger.Error("Backend call failed", log.String("endpoint", endpoint), log.Error(err))
		return fmt.Errorf("backend %s call failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		metrics.RecordExternalOp("backend"+endpoint, duration, false)
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	c.logger.Debug("Backend response received",
		log.String("endpoint", endpoint),
		log.Int("status", resp.StatusCode),
		log.Any("duration", duration))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordExternalOp("backend"+endpoint, duration, false)
		c.logger.Warn("Backend returned non-success status",
			log.String("endpoint", endpoint),
			log.Int("status", resp.StatusCode))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}
	metrics.RecordExternalOp("backend"+endpoint, duration, true)

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
	}
	return nil
}
