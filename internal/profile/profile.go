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

// Package profile holds the user and developer profile shapes exchanged with the
// backend and the form state collected by the consent wizard.
package profile

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexString accepts a JSON string, number, boolean or null and keeps it as text.
// Profile fields such as numberOfEmployees are numeric on the backend but edited as text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*f = FlexString(strconv.FormatBool(b))
	return nil
}

// BasicInfo is the basic attribute group.
type BasicInfo struct {
	ProfilePhoto     FlexString `json:"profilePhoto,omitempty"`
	AccessToReadPost bool       `json:"accessToReadPost"`
	Name             FlexString `json:"name,omitempty"`
	Email            FlexString `json:"email,omitempty"`
}

// PersonalInfo is the personal attribute group.
type PersonalInfo struct {
	PhoneNumber     FlexString `json:"phoneNumber,omitempty"`
	PhysicalAddress FlexString `json:"physicalAddress,omitempty"`
	MailingAddress  FlexString `json:"mailingAddress,omitempty"`
	DateOfBirth     FlexString `json:"dateOfBirth,omitempty"`
	Gender          FlexString `json:"gender,omitempty"`
}

// BusinessInfo is the business attribute group.
type BusinessInfo struct {
	BusinessName        FlexString `json:"businessName,omitempty"`
	BusinessEmail       FlexString `json:"businessEmail,omitempty"`
	BusinessPhoneNumber FlexString `json:"businessPhoneNumber,omitempty"`
	NumberOfEmployees   FlexString `json:"numberOfEmployees,omitempty"`
	DateOfFoundation    FlexString `json:"dateOfFoundation,omitempty"`
}

// Permissions lists, per group, the fields the profile owner has exposed.
type Permissions struct {
	Basic    []string `json:"basic,omitempty"`
	Personal []string `json:"personal,omitempty"`
	Business []string `json:"business,omitempty"`
}

// UserProfile is the stored profile of a TrustLens user, keyed by email.
// A nil group means the backend did not return it.
type UserProfile struct {
	Email       string        `json:"email"`
	Basic       *BasicInfo    `json:"basic,omitempty"`
	Personal    *PersonalInfo `json:"personal,omitempty"`
	Business    *BusinessInfo `json:"business,omitempty"`
	Permissions Permissions   `json:"permissions"`
	DigitalID   string        `json:"digitalId,omitempty"`
}

// DeveloperProfile describes the application requesting access.
type DeveloperProfile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	PrivacyPolicy string `json:"privacyPolicy"`
}
