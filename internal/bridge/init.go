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

package bridge

import "github.com/gin-gonic/gin"

// Initialize registers the bridge routes. publicURL is the externally
// visible base URL of the middleware.
func Initialize(root gin.IRoutes, api *gin.RouterGroup, b *Bridge, publicURL string) {
	registerRoutes(root, api, newBridgeHandler(b, publicURL))
}

func registerRoutes(root gin.IRoutes, api *gin.RouterGroup, handler *bridgeHandler) {
	group := api.Group("/bridge")
	{
		group.POST("/verify", handler.verify)
		group.GET("/popup", handler.popup)
	}
	root.GET("/sdk/opener", handler.opener)
}
