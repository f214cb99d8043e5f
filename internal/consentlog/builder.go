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
	"strings"
	"time"

	"github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	"github.com/wso2/trustlens-consent-middleware/internal/device"
	"github.com/wso2/trustlens-consent-middleware/internal/geo"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

// idTimeLayout yields the digits of a UTC timestamp down to the microsecond.
const idTimeLayout = "20060102150405.000000"

// BuildInput carries everything known about a completed flow.
type BuildInput struct {
	APIKey      string
	UserEmail   string
	Developer   *profile.DeveloperProfile
	Permissions permission.Request
	Device      device.Context
	// Location is nil when the lookup failed; the location fields stay blank.
	Location  *geo.Location
	RiskLevel string
	Now       time.Time
}

// Build assembles the consent record of a completed flow. Every requested
// field is recorded as granted.
func Build(in BuildInput) *model.ConsentRecord {
	now := in.Now.UTC()
	riskLevel := in.RiskLevel
	if riskLevel == "" {
		riskLevel = model.RiskLevelLow
	}

	perms := make([]model.PermissionEntry, 0)
	for _, field := range in.Permissions.AllFields() {
		perms = append(perms, model.PermissionEntry{Name: field, Status: model.PermissionGranted})
	}
	categories := in.Permissions.Categories()
	if categories == nil {
		categories = []string{}
	}

	record := &model.ConsentRecord{
		ID:              strings.ReplaceAll(now.Format(idTimeLayout), ".", "") + in.APIKey + in.UserEmail,
		UserEmail:       in.UserEmail,
		DataCategories:  categories,
		Permissions:     perms,
		Timestamp:       now.Format(time.RFC3339),
		Browser:         in.Device.Browser,
		DeviceType:      in.Device.DeviceType,
		OperatingSystem: in.Device.OS,
		Successful:      true,
		RiskLevel:       riskLevel,
	}

	if dev := in.Developer; dev != nil {
		record.DevEmail = dev.Email
		record.Name = dev.Name
		record.Purpose = dev.Description
		record.Icon = dev.Image
		record.PrivacyPolicyURL = dev.PrivacyPolicy
	}

	if loc := in.Location; loc != nil {
		record.Country = loc.CountryName
		record.IPAddress = loc.IP
		record.Location.City = loc.City
		record.Location.CountryCode = loc.CountryCode
		if loc.Region != "" {
			region := loc.Region
			record.Location.State = &region
		}
	}

	return record
}
