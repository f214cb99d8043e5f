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

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
	"github.com/wso2/trustlens-consent-middleware/internal/web"
)

// VerifyRequest is a message received by an opener together with the
// origin it was received at.
type VerifyRequest struct {
	Origin  string   `json:"origin" binding:"required"`
	Message *Message `json:"message" binding:"required"`
}

// VerifyResponse is an accepted message.
type VerifyResponse struct {
	SessionID    string           `json:"sessionId"`
	APIKey       string           `json:"apiKey"`
	UserEmail    string           `json:"userEmail"`
	Data         profile.FormData `json:"data"`
	ProfilePhoto string           `json:"profilePhoto"`
}

// PopupResponse describes how to open the popup.
type PopupResponse struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Features string `json:"features"`
}

type bridgeHandler struct {
	bridge    *Bridge
	publicURL string
	logger    *log.Logger
}

func newBridgeHandler(b *Bridge, publicURL string) *bridgeHandler {
	return &bridgeHandler{
		bridge:    b,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BridgeHandler")),
	}
}

// verify handles POST /api/v1/bridge/verify
func (h *bridgeHandler) verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}

	received, err := h.bridge.Receive(c.Request.Context(), req.Origin, req.Message)
	if err != nil {
		h.logger.Debug("Rejected bridge message", log.String("origin", req.Origin), log.Error(err))
		utils.AbortWithError(c, receiveError(err))
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		SessionID:    received.Claims.SessionID,
		APIKey:       received.Claims.APIKey,
		UserEmail:    received.Claims.Subject,
		Data:         received.Data,
		ProfilePhoto: received.ProfilePhoto,
	})
}

// popup handles GET /api/v1/bridge/popup?width=&height=
func (h *bridgeHandler) popup(c *gin.Context) {
	width, errW := strconv.Atoi(c.DefaultQuery("width", "0"))
	height, errH := strconv.Atoi(c.DefaultQuery("height", "0"))
	if errW != nil || errH != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			"width and height must be integers"))
		return
	}
	c.JSON(http.StatusOK, PopupResponse{
		Name:     PopupName,
		Width:    PopupWidth,
		Height:   PopupHeight,
		Features: PopupFeatures(width, height),
	})
}

// opener handles GET /sdk/opener?key=&email=, a page that launches the popup
// and verifies the message it posts back.
func (h *bridgeHandler) opener(c *gin.Context) {
	apiKey := c.Query("key")
	if apiKey == "" {
		c.HTML(http.StatusBadRequest, web.ErrorTemplate, gin.H{"Message": "the key query parameter is required"})
		return
	}
	c.HTML(http.StatusOK, web.OpenerTemplate, gin.H{
		"PopupBase":   h.publicURL + "/middleware",
		"PopupOrigin": utils.NormalizeOrigin(h.publicURL),
		"VerifyURL":   h.publicURL + constants.APIBasePath + "/bridge/verify",
		"APIKey":      apiKey,
		"UserEmail":   c.Query("email"),
		"PopupName":   PopupName,
		"Width":       PopupWidth,
		"Height":      PopupHeight,
		"MessageType": constants.BridgeMessageType,
	})
}

func receiveError(err error) *serviceerror.ServiceError {
	switch {
	case errors.Is(err, ErrIgnoredMessage):
		return serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	case errors.Is(err, ErrOriginNotAllowed), errors.Is(err, ErrOriginMismatch):
		return serviceerror.CustomServiceError(serviceerror.ForbiddenError, err.Error())
	case errors.Is(err, ErrTokenReplayed):
		return serviceerror.CustomServiceError(serviceerror.ConflictError, err.Error())
	default:
		return serviceerror.CustomServiceError(serviceerror.UnauthorizedError, err.Error())
	}
}
