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

package wizard

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/codes"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
	"github.com/wso2/trustlens-consent-middleware/internal/web"
)

// multipartOverhead is the allowance for form fields sent next to a photo.
const multipartOverhead = 1 << 20

const photoFormField = "photo"

type wizardHandler struct {
	service        WizardServiceInterface
	maxUploadBytes int64
	logger         *log.Logger
}

func newWizardHandler(service WizardServiceInterface, maxUploadBytes int64) *wizardHandler {
	return &wizardHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         log.GetLogger().With(log.String(log.LoggerKeyComponentName, "WizardHandler")),
	}
}

// createSession handles POST /api/v1/wizard/sessions
func (h *wizardHandler) createSession(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.ClientIP = c.ClientIP()

	session, svcErr := h.service.Start(c.Request.Context(), &req)
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.Header("Location", "/api/v1/wizard/sessions/"+session.ID)
	c.JSON(http.StatusCreated, BuildView(session, nil))
}

// getSession handles GET /api/v1/wizard/sessions/:id
func (h *wizardHandler) getSession(c *gin.Context) {
	view, svcErr := h.service.GetView(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// continueSession handles POST /api/v1/wizard/sessions/:id/continue
func (h *wizardHandler) continueSession(c *gin.Context) {
	h.respond(c, func() (*Session, *serviceerror.ServiceError) {
		return h.service.Continue(c.Request.Context(), c.Param("id"))
	})
}

// updateField handles PUT /api/v1/wizard/sessions/:id/fields
func (h *wizardHandler) updateField(c *gin.Context) {
	var update FieldUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}
	h.respond(c, func() (*Session, *serviceerror.ServiceError) {
		return h.service.UpdateField(c.Request.Context(), c.Param("id"), update)
	})
}

// uploadPhoto handles POST /api/v1/wizard/sessions/:id/photo. The image is
// sent either as the "photo" part of a multipart form or as the raw body.
func (h *wizardHandler) uploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	var (
		contentType string
		data        []byte
		svcErr      *serviceerror.ServiceError
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile(photoFormField)
		if err != nil {
			utils.AbortWithError(c, uploadReadError(err))
			return
		}
		contentType, data, svcErr = h.readUpload(file)
	} else {
		contentType = c.ContentType()
		data, svcErr = h.readAll(c.Request.Body)
	}
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}

	h.respond(c, func() (*Session, *serviceerror.ServiceError) {
		return h.service.UploadPhoto(c.Request.Context(), c.Param("id"), contentType, data)
	})
}

// grant handles POST /api/v1/wizard/sessions/:id/grant. The body is optional.
func (h *wizardHandler) grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.AbortWithError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
		return
	}
	h.respond(c, func() (*Session, *serviceerror.ServiceError) {
		return h.service.Grant(c.Request.Context(), c.Param("id"), &req)
	})
}

// goBack handles POST /api/v1/wizard/sessions/:id/back
func (h *wizardHandler) goBack(c *gin.Context) {
	h.respond(c, func() (*Session, *serviceerror.ServiceError) {
		return h.service.GoBack(c.Request.Context(), c.Param("id"))
	})
}

// getResult handles GET /api/v1/wizard/sessions/:id/result
func (h *wizardHandler) getResult(c *gin.Context) {
	envelope, svcErr := h.service.GetResult(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, envelope)
}

func (h *wizardHandler) respond(c *gin.Context, op func() (*Session, *serviceerror.ServiceError)) {
	session, svcErr := op()
	if svcErr != nil {
		utils.AbortWithError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, BuildView(session, nil))
}

// popupData is the model of the popup page.
type popupData struct {
	View  *View
	Error string
}

// startPopup handles GET /middleware?key=&email=&origin=&name=&picture=
func (h *wizardHandler) startPopup(c *gin.Context) {
	req := StartRequest{
		APIKey:       c.Query("key"),
		UserEmail:    c.Query("email"),
		UserName:     c.Query("name"),
		Picture:      c.Query("picture"),
		OpenerOrigin: c.Query("origin"),
		UserAgent:    c.Request.UserAgent(),
		ClientIP:     c.ClientIP(),
	}
	if req.APIKey == "" || req.OpenerOrigin == "" {
		h.renderError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			"the key and origin query parameters are required"))
		return
	}

	session, svcErr := h.service.Start(c.Request.Context(), &req)
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	c.Redirect(http.StatusSeeOther, popupPath(session.ID, ""))
}

// showPopup handles GET /middleware/:id
func (h *wizardHandler) showPopup(c *gin.Context) {
	view, svcErr := h.service.GetView(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	if view.Completed {
		c.Redirect(http.StatusSeeOther, popupPath(view.SessionID, "complete"))
		return
	}
	c.HTML(http.StatusOK, web.PopupTemplate, popupData{View: view})
}

// continuePopup handles POST /middleware/:id/continue
func (h *wizardHandler) continuePopup(c *gin.Context) {
	session, svcErr := h.service.Continue(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	h.redirectToStep(c, session)
}

// backPopup handles POST /middleware/:id/back
func (h *wizardHandler) backPopup(c *gin.Context) {
	session, svcErr := h.service.GoBack(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	h.redirectToStep(c, session)
}

// grantPopup handles POST /middleware/:id/grant. Inputs are named
// category.field; the profile photo arrives as a file part.
func (h *wizardHandler) grantPopup(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	var form url.Values
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(h.maxUploadBytes + multipartOverhead); err != nil {
			h.renderError(c, uploadReadError(err))
			return
		}
		form = c.Request.MultipartForm.Value
		if photo, err := c.FormFile(string(catalog.CategoryBasic) + "." + catalog.FieldProfilePhoto); err == nil && photo.Size > 0 {
			contentType, data, svcErr := h.readUpload(photo)
			if svcErr == nil {
				_, svcErr = h.service.UploadPhoto(ctx, id, contentType, data)
			}
			if svcErr != nil {
				h.rejectPhoto(c, id, form, svcErr)
				return
			}
		}
	} else {
		if err := c.Request.ParseForm(); err != nil {
			h.renderError(c, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error()))
			return
		}
		form = c.Request.PostForm
	}

	session, svcErr := h.service.Grant(ctx, id, &GrantRequest{Fields: formUpdates(form)})
	if svcErr != nil && svcErr.Code == codes.MissingRequiredFields && session != nil {
		c.HTML(http.StatusUnprocessableEntity, web.PopupTemplate, popupData{
			View:  BuildView(session, session.Permissions.Missing(session.Form)),
			Error: svcErr.ErrorDescription,
		})
		return
	}
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	h.redirectToStep(c, session)
}

// rejectPhoto keeps the typed values and shows the consent step again with
// the upload error. The photo is optional, so the user can retry or grant
// without one.
func (h *wizardHandler) rejectPhoto(c *gin.Context, id string, form url.Values, uploadErr *serviceerror.ServiceError) {
	ctx := c.Request.Context()
	for _, update := range formUpdates(form) {
		if _, svcErr := h.service.UpdateField(ctx, id, update); svcErr != nil {
			h.logger.Debug("Skipped field update", log.String("field", update.Field),
				log.String("error", svcErr.ErrorDescription))
		}
	}
	view, svcErr := h.service.GetView(ctx, id)
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	c.HTML(utils.StatusCode(uploadErr), web.PopupTemplate, popupData{View: view, Error: uploadErr.ErrorDescription})
}

// completePopup handles GET /middleware/:id/complete
func (h *wizardHandler) completePopup(c *gin.Context) {
	envelope, svcErr := h.service.DeliverResult(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		h.renderError(c, svcErr)
		return
	}
	c.HTML(http.StatusOK, web.BridgeTemplate, envelope)
}

func (h *wizardHandler) redirectToStep(c *gin.Context, session *Session) {
	if session.Completed {
		c.Redirect(http.StatusSeeOther, popupPath(session.ID, "complete"))
		return
	}
	c.Redirect(http.StatusSeeOther, popupPath(session.ID, ""))
}

func (h *wizardHandler) renderError(c *gin.Context, svcErr *serviceerror.ServiceError) {
	h.logger.Debug("Popup request failed",
		log.String("code", svcErr.Code), log.String("error", svcErr.ErrorDescription))
	c.HTML(utils.StatusCode(svcErr), web.ErrorTemplate, gin.H{"Message": svcErr.ErrorDescription})
}

func (h *wizardHandler) readUpload(file *multipart.FileHeader) (string, []byte, *serviceerror.ServiceError) {
	f, err := file.Open()
	if err != nil {
		return "", nil, uploadReadError(err)
	}
	defer f.Close()

	data, svcErr := h.readAll(f)
	if svcErr != nil {
		return "", nil, svcErr
	}
	return file.Header.Get("Content-Type"), data, nil
}

// readAll reads at most one byte past the ceiling so the service can reject
// oversized photos.
func (h *wizardHandler) readAll(r io.Reader) ([]byte, *serviceerror.ServiceError) {
	data, err := io.ReadAll(io.LimitReader(r, h.maxUploadBytes+1))
	if err != nil {
		return nil, uploadReadError(err)
	}
	return data, nil
}

func uploadReadError(err error) *serviceerror.ServiceError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return serviceerror.CustomServiceError(serviceerror.PayloadTooLargeError, "profile photo is too large")
	}
	return serviceerror.CustomServiceError(serviceerror.InvalidRequestError, fmt.Sprintf("failed to read upload: %v", err))
}

// formUpdates turns category.field inputs into field updates. Other inputs
// are ignored.
func formUpdates(form url.Values) []FieldUpdate {
	var updates []FieldUpdate
	for _, c := range catalog.Categories {
		prefix := string(c) + "."
		for key, values := range form {
			if !strings.HasPrefix(key, prefix) || len(values) == 0 {
				continue
			}
			field := strings.TrimPrefix(key, prefix)
			if field == catalog.FieldProfilePhoto {
				continue
			}
			updates = append(updates, FieldUpdate{Category: c, Field: field, Value: values[0]})
		}
	}
	return updates
}

func popupPath(id, action string) string {
	if action == "" {
		return "/middleware/" + id
	}
	return "/middleware/" + id + "/" + action
}
