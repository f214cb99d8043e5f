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

package serviceerror

import "github.com/wso2/trustlens-consent-middleware/internal/system/error/codes"

type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
	Details          []string         `json:"details,omitempty"`
}

var (
	InternalServerError = ServiceError{
		Type:             ServerErrorType,
		Code:             codes.InternalServerError,
		Error:            "internal_server_error",
		ErrorDescription: "An unexpected error occurred",
	}

	DatabaseError = ServiceError{
		Type:             ServerErrorType,
		Code:             codes.DatabaseError,
		Error:            "database_error",
		ErrorDescription: "A database error occurred",
	}

	UpstreamError = ServiceError{
		Type:             ServerErrorType,
		Code:             codes.UpstreamError,
		Error:            "upstream_error",
		ErrorDescription: "An upstream service call failed",
	}

	InvalidRequestError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.InvalidRequest,
		Error:            "invalid_request",
		ErrorDescription: "The request is invalid",
	}

	ResourceNotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.ResourceNotFound,
		Error:            "resource_not_found",
		ErrorDescription: "Resource not found",
	}

	ConflictError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.ConflictError,
		Error:            "conflict",
		ErrorDescription: "Request conflicts with current state",
	}

	ValidationError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.ValidationError,
		Error:            "validation_error",
		ErrorDescription: "Validation failed",
	}

	PayloadTooLargeError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.PayloadTooLarge,
		Error:            "payload_too_large",
		ErrorDescription: "The uploaded payload exceeds the allowed size",
	}

	ForbiddenError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.OriginNotAllowed,
		Error:            "forbidden",
		ErrorDescription: "The request origin is not allowed",
	}

	UnauthorizedError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.InvalidToken,
		Error:            "unauthorized",
		ErrorDescription: "The token is invalid",
	}
)

func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}

// WithDetails returns a copy of the error carrying per-item details, such as the
// list of fields that failed validation.
func WithDetails(baseError ServiceError, description string, details []string) *ServiceError {
	err := CustomServiceError(baseError, description)
	err.Details = details
	return err
}
