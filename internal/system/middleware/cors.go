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
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSOptions carries the configured cross-origin policy for the JSON API.
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

// CORSMiddleware builds the gin-contrib/cors handler for the given options.
// Requests from origins outside the list are rejected with 403.
func CORSMiddleware(opts CORSOptions) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     opts.AllowedMethods,
		AllowHeaders:     opts.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "X-Correlation-ID"},
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	for _, origin := range opts.AllowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowOrigins = nil
			break
		}
		cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
	}
	return cors.New(cfg)
}
