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
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

type consentLogHandler struct {
	service ConsentLogServiceInterface
}

func newConsentLogHandler(service ConsentLogServiceInterface) *consentLogHandler {
	return &consentLogHandler{service: service}
}

// listConsentLogs handles GET /api/v1/consent-logs
func (h *consentLogHandler) listConsentLogs(c *gin.Context) {
	limit, err := queryInt(c, "limit", constants.DefaultPageSize)
	if err != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "limit must be an integer"))
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, "offset must be an integer"))
		return
	}

	resp, svcErr := h.service.ListConsentLogs(c.Request.Context(), c.Query("userEmail"), limit, offset)
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getConsentLog handles GET /api/v1/consent-logs/:id
func (h *consentLogHandler) getConsentLog(c *gin.Context) {
	entry, svcErr := h.service.GetConsentLog(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
