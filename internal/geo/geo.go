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

// Package geo resolves the coarse location of the consenting client through an
// ipapi.co compatible service.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
)

// Location is the subset of the lookup response used in consent records.
type Location struct {
	CountryName string `json:"country_name"`
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryCode string `json:"country_code"`
}

// LocatorInterface resolves a client location.
type LocatorInterface interface {
	Lookup(ctx context.Context, clientIP string) (*Location, error)
}

// Client calls the geolocation service.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	enabled         bool
	forwardClientIP bool
	logger          *log.Logger
}

var _ LocatorInterface = (*Client)(nil)

// NewClient creates a geolocation client from config.
func NewClient(cfg *config.GeoConfig) *Client {
	timeout := 5 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		baseURL:         strings.TrimSuffix(cfg.URL, "/"),
		enabled:         cfg.Enabled,
		forwardClientIP: cfg.ForwardClientIP,
		logger:          log.GetLogger().With(log.String(log.LoggerKeyComponentName, "GeoClient")),
	}
}

// ErrDisabled is returned by Lookup when geolocation is turned off.
var ErrDisabled = fmt.Errorf("geolocation is disabled")

// Lookup resolves the location of clientIP, or of the caller's own address when
// IP forwarding is off or clientIP is not a public address.
func (c *Client) Lookup(ctx context.Context, clientIP string) (*Location, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}

	url := c.baseURL + "/json/"
	if c.forwardClientIP && isPublicIP(clientIP) {
		url = c.baseURL + "/" + clientIP + "/json/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordExternalOp("geo_lookup", time.Since(start), false)
		return nil, fmt.Errorf("geolocation call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		metrics.RecordExternalOp("geo_lookup", time.Since(start), false)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordExternalOp("geo_lookup", time.Since(start), false)
		c.logger.Warn("Geolocation service returned non-success status", log.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("geolocation service returned status %d", resp.StatusCode)
	}

	var loc Location
	if err := json.Unmarshal(body, &loc); err != nil {
		metrics.RecordExternalOp("geo_lookup", time.Since(start), false)
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	metrics.RecordExternalOp("geo_lookup", time.Since(start), true)
	return &loc, nil
}

func isPublicIP(raw string) bool {
	ip := net.ParseIP(raw)
	if ip == nil {
		return false
	}
	return !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() && !ip.IsLinkLocalUnicast()
}
