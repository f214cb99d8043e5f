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

package registration

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

type registrationHandler struct {
	service RegistrationServiceInterface
}

func newRegistrationHandler(service RegistrationServiceInterface) *registrationHandler {
	return &registrationHandler{service: service}
}

// register handles POST /api/v1/register. JSON and form bodies are accepted.
func (h *registrationHandler) register(c *gin.Context) {
	var form RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.ValidationError, validationMessage(err).Error()))
			return
		}
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	resp, svcErr := h.service.Register(c.Request.Context(), &form)
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
