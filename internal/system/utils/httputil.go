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

package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/system/error/apierror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/codes"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
)

// StatusCode maps a ServiceError to the HTTP status it should be reported with
func StatusCode(err *serviceerror.ServiceError) int {
	if err.Type != serviceerror.ClientErrorType {
		if err.Code == codes.UpstreamError {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}

	switch err.Code {
	case codes.ResourceNotFound, codes.SessionNotFound:
		return http.StatusNotFound
	case codes.ConflictError, codes.SessionCompleted:
		return http.StatusConflict
	case codes.MissingRequiredFields:
		return http.StatusUnprocessableEntity
	case codes.PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case codes.OriginNotAllowed:
		return http.StatusForbidden
	case codes.InvalidToken:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

func errorResponse(err *serviceerror.ServiceError) apierror.ErrorResponse {
	return apierror.ErrorResponse{
		Code:        err.Error,
		Description: err.ErrorDescription,
		Details:     err.Details,
	}
}

// AbortWithError writes a ServiceError on a gin context and stops the handler chain
func AbortWithError(c *gin.Context, err *serviceerror.ServiceError) {
	c.AbortWithStatusJSON(StatusCode(err), errorResponse(err))
}
