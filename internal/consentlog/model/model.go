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

// Package model defines the consent record and its persisted forms.
package model

// Permission statuses.
const (
	PermissionGranted = "Granted"
	PermissionDenied  = "Denied"
)

// RiskLevelLow is the risk level assigned to every completed flow.
const RiskLevelLow = "Low"

// Delivery outcomes of forwarding a record to the backend.
const (
	DeliveryDelivered = "DELIVERED"
	DeliveryFailed    = "FAILED"
)

// PermissionEntry is one granted or denied field.
type PermissionEntry struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Location is the coarse geolocation of the consenting client.
type Location struct {
	City        string  `json:"city"`
	State       *string `json:"state"`
	CountryCode string  `json:"country_code"`
}

// ConsentRecord is the access-log entry written once per completed consent flow.
type ConsentRecord struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Purpose          string            `json:"purpose"`
	Icon             string            `json:"icon"`
	DevEmail         string            `json:"devEmail"`
	UserEmail        string            `json:"userEmail"`
	PrivacyPolicyURL string            `json:"privacyPolicyUrl"`
	DataCategories   []string          `json:"dataCategories"`
	Permissions      []PermissionEntry `json:"permissions"`
	Timestamp        string            `json:"timestamp"`
	Country          string            `json:"country"`
	IPAddress        string            `json:"ip_address"`
	Browser          string            `json:"browser"`
	DeviceType       string            `json:"device_type"`
	OperatingSystem  string            `json:"operating_system"`
	Successful       bool              `json:"successful"`
	RiskLevel        string            `json:"risk_level"`
	Location         Location          `json:"location"`
	AppColor         string            `json:"app_color"`
	AccessFrequency  string            `json:"accessFrequency"`
}

// Delivery is one attempt to forward a record to the backend.
type Delivery struct {
	DeliveryID   string `json:"deliveryId"`
	LogID        string `json:"logId"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedTime  int64  `json:"createdTime"`
}

// ConsentLogEntry is a stored record with its bookkeeping columns.
type ConsentLogEntry struct {
	ConsentRecord
	CreatedTime int64      `json:"createdTime"`
	Deliveries  []Delivery `json:"deliveries,omitempty"`
}

// ListResponse is a page of stored records.
type ListResponse struct {
	Data     []ConsentLogEntry `json:"data"`
	Metadata ListMetadata      `json:"metadata"`
}

// ListMetadata describes a page.
type ListMetadata struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}
