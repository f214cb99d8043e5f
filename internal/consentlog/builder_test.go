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
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	"github.com/wso2/trustlens-consent-middleware/internal/device"
	"github.com/wso2/trustlens-consent-middleware/internal/geo"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
)

var buildTime = time.Date(2026, 10, 14, 9, 30, 15, 123456000, time.UTC)

func sampleInput() BuildInput {
	return BuildInput{
		APIKey:    "key-1",
		UserEmail: "jane@example.com",
		Developer: &profile.DeveloperProfile{
			Name: "Acme", Email: "dev@acme.io", Description: "Ride sharing",
			Image: "https://acme.io/icon.png", PrivacyPolicy: "https://acme.io/privacy",
		},
		Permissions: permission.Request{
			catalog.CategoryBasic:    {catalog.FieldEmail, catalog.FieldProfilePhoto},
			catalog.CategoryPersonal: {catalog.FieldPhoneNumber},
		},
		Device:   device.Context{OS: "iOS", Browser: "Safari", DeviceType: device.Mobile},
		Location: &geo.Location{CountryName: "Sri Lanka", IP: "203.0.113.9", City: "Colombo", Region: "Western", CountryCode: "LK"},
		Now:      buildTime,
	}
}

func TestBuild(t *testing.T) {
	rec := Build(sampleInput())

	assert.Equal(t, "20261014093015123456key-1jane@example.com", rec.ID)
	assert.Equal(t, "2026-10-14T09:30:15Z", rec.Timestamp)
	assert.Equal(t, "dev@acme.io", rec.DevEmail)
	assert.Equal(t, "Acme", rec.Name)
	assert.Equal(t, "Ride sharing", rec.Purpose)
	assert.Equal(t, "https://acme.io/privacy", rec.PrivacyPolicyURL)
	assert.Equal(t, []string{"basic", "personal"}, rec.DataCategories)
	assert.Equal(t, []model.PermissionEntry{
		{Name: catalog.FieldEmail, Status: model.PermissionGranted},
		{Name: catalog.FieldProfilePhoto, Status: model.PermissionGranted},
		{Name: catalog.FieldPhoneNumber, Status: model.PermissionGranted},
	}, rec.Permissions)
	assert.True(t, rec.Successful)
	assert.Equal(t, model.RiskLevelLow, rec.RiskLevel)
	assert.Equal(t, "iOS", rec.OperatingSystem)
	assert.Equal(t, device.Mobile, rec.DeviceType)
	assert.Equal(t, "Sri Lanka", rec.Country)
	require.NotNil(t, rec.Location.State)
	assert.Equal(t, "Western", *rec.Location.State)
}

func TestBuild_WithoutLocation(t *testing.T) {
	in := sampleInput()
	in.Location = nil
	rec := Build(in)

	assert.Empty(t, rec.Country)
	assert.Empty(t, rec.IPAddress)
	assert.Nil(t, rec.Location.State)
	assert.True(t, rec.Successful)
}

func TestBuild_IDDiffersPerFlow(t *testing.T) {
	a := sampleInput()
	b := sampleInput()
	b.Now = buildTime.Add(time.Microsecond)
	assert.NotEqual(t, Build(a).ID, Build(b).ID)
}

func TestBuild_ShippedConfigRecordsClientLocation(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "cmd", "server", "repository", "conf", "deployment.yaml"))
	require.NoError(t, err)

	// the service echoes the address it was asked about; /json/ stands for the server's own address
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/json/")
		if r.URL.Path == "/json/" {
			ip = "198.51.100.1"
		}
		w.Write([]byte(`{"country_name":"United States","ip":"` + ip + `","city":"Mountain View","region":"California","country_code":"US"}`))
	}))
	t.Cleanup(srv.Close)
	geoCfg := cfg.Geo
	geoCfg.URL = srv.URL

	loc, err := geo.NewClient(&geoCfg).Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)

	in := sampleInput()
	in.Location = loc
	rec := Build(in)
	assert.Equal(t, "8.8.8.8", rec.IPAddress)
	assert.Equal(t, "US", rec.Location.CountryCode)
}
