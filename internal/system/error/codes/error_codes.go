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

package codes

// Error codes for the TrustLens consent middleware
const (
	// General errors
	InternalServerError = "TLM-5000"
	DatabaseError       = "TLM-5001"
	UpstreamError       = "TLM-5020"
	InvalidRequest      = "TLM-4000"
	ValidationError     = "TLM-4001"
	ResourceNotFound    = "TLM-4004"
	ConflictError       = "TLM-4009"
	PayloadTooLarge     = "TLM-4013"

	// Wizard-specific errors
	SessionNotFound       = "TLM-4040"
	SessionCompleted      = "TLM-4041"
	MissingRequiredFields = "TLM-4042"
	InvalidStep           = "TLM-4043"
	UnsupportedUpload     = "TLM-4044"

	// Bridge-specific errors
	OriginNotAllowed = "TLM-4030"
	InvalidToken     = "TLM-4031"

	// Registration-specific errors
	RegistrationFailed = "TLM-5030"
)
