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

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
)

var correlationHeaders = []string{constants.CorrelationIDHeaderName, "X-Request-ID", "X-Trace-ID"}

// CorrelationIDMiddleware propagates or generates a correlation ID for every request.
// The ID is stored on the gin context, the request context and the response header.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(string(constants.CorrelationIDContextKey), correlationID)
		c.Header(constants.CorrelationIDHeaderName, correlationID)
		c.Request = c.Request.WithContext(WithCorrelationID(c.Request.Context(), correlationID))
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	for _, header := range correlationHeaders {
		if id := c.GetHeader(header); id != "" {
			return id
		}
	}
	return ""
}

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, constants.CorrelationIDContextKey, correlationID)
}

// CorrelationID extracts the correlation ID from the context, returns "" if not found
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(constants.CorrelationIDContextKey).(string); ok {
		return id
	}
	return ""
}
