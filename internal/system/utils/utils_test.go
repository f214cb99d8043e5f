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
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  serviceerror.ServiceError
		want int
	}{
		{"not found", serviceerror.ResourceNotFoundError, http.StatusNotFound},
		{"conflict", serviceerror.ConflictError, http.StatusConflict},
		{"validation", serviceerror.ValidationError, http.StatusBadRequest},
		{"too large", serviceerror.PayloadTooLargeError, http.StatusRequestEntityTooLarge},
		{"forbidden", serviceerror.ForbiddenError, http.StatusForbidden},
		{"unauthorized", serviceerror.UnauthorizedError, http.StatusUnauthorized},
		{"upstream", serviceerror.UpstreamError, http.StatusBadGateway},
		{"database", serviceerror.DatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.err
			assert.Equal(t, tt.want, StatusCode(&err))
		})
	}
}

func TestAbortWithError_WritesDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	AbortWithError(c, serviceerror.WithDetails(serviceerror.ValidationError, "missing fields", []string{"personal.phoneNumber"}))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation_error","error_description":"missing fields","details":["personal.phoneNumber"]}`, rec.Body.String())
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID(GenerateUUID()))
	assert.False(t, IsValidUUID("missing"))
}

func TestNormalizeOrigin(t *testing.T) {
	assert.Equal(t, "https://app.example.com", NormalizeOrigin("https://App.Example.com/login?x=1"))
	assert.Equal(t, "http://localhost:5173", NormalizeOrigin("http://localhost:5173"))
	assert.Equal(t, "", NormalizeOrigin("javascript:alert(1)"))
	assert.Equal(t, "", NormalizeOrigin("*"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("email", "a@b.co"))
	assert.Error(t, ValidateEmail("email", ""))
	assert.Error(t, ValidateEmail("email", "not-an-email"))
	assert.Error(t, ValidateEmail("email", "Bob <bob@example.com>"))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello\tworld", SanitizeString("  hello\tworld\x00 "))
}
