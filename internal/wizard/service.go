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
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/bridge"
	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/consentlog"
	"github.com/wso2/trustlens-consent-middleware/internal/device"
	"github.com/wso2/trustlens-consent-middleware/internal/geo"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/codes"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
	"github.com/wso2/trustlens-consent-middleware/internal/system/metrics"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

var (
	sessionNotFoundError = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.SessionNotFound,
		Error:            "session_not_found",
		ErrorDescription: "The wizard session does not exist or has expired",
	}
	sessionCompletedError = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.SessionCompleted,
		Error:            "session_completed",
		ErrorDescription: "The consent flow has already completed",
	}
	missingFieldsError = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.MissingRequiredFields,
		Error:            "missing_required_fields",
		ErrorDescription: "Please fill in all required fields before proceeding.",
	}
	invalidStepError = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.InvalidStep,
		Error:            "invalid_step",
		ErrorDescription: "The operation is not available at the current step",
	}
	unsupportedUploadError = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.UnsupportedUpload,
		Error:            "unsupported_upload",
		ErrorDescription: "Only image uploads are accepted",
	}
)

// WizardServiceInterface defines the consent wizard operations
type WizardServiceInterface interface {
	Start(ctx context.Context, req *StartRequest) (*Session, *serviceerror.ServiceError)
	GetSession(ctx context.Context, id string) (*Session, *serviceerror.ServiceError)
	GetView(ctx context.Context, id string) (*View, *serviceerror.ServiceError)
	Continue(ctx context.Context, id string) (*Session, *serviceerror.ServiceError)
	UpdateField(ctx context.Context, id string, update FieldUpdate) (*Session, *serviceerror.ServiceError)
	UploadPhoto(ctx context.Context, id, contentType string, data []byte) (*Session, *serviceerror.ServiceError)
	Grant(ctx context.Context, id string, req *GrantRequest) (*Session, *serviceerror.ServiceError)
	GoBack(ctx context.Context, id string) (*Session, *serviceerror.ServiceError)
	GetResult(ctx context.Context, id string) (*bridge.Envelope, *serviceerror.ServiceError)
	DeliverResult(ctx context.Context, id string) (*bridge.Envelope, *serviceerror.ServiceError)
}

// Options tune the wizard.
type Options struct {
	MaxUploadBytes int64
	RiskLevel      string
}

type wizardService struct {
	sessions   SessionStore
	backend    backend.ClientInterface
	geo        geo.LocatorInterface
	consentLog consentlog.ConsentLogServiceInterface
	bridge     *bridge.Bridge
	opts       Options
	now        func() time.Time
	logger     *log.Logger
}

func newWizardService(
	sessions SessionStore,
	backendClient backend.ClientInterface,
	locator geo.LocatorInterface,
	consentLog consentlog.ConsentLogServiceInterface,
	br *bridge.Bridge,
	opts Options,
) *wizardService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 2 << 20
	}
	return &wizardService{
		sessions:   sessions,
		backend:    backendClient,
		geo:        locator,
		consentLog: consentLog,
		bridge:     br,
		opts:       opts,
		now:        time.Now,
		logger:     log.GetLogger().With(log.String(log.LoggerKeyComponentName, "WizardService")),
	}
}

// Start opens a session and loads the developer request and the user's profile.
// The three lookups run concurrently; any that fails leaves its defaults in place.
// The sign-up check runs once both emails are known.
func (s *wizardService) Start(ctx context.Context, req *StartRequest) (*Session, *serviceerror.ServiceError) {
	if err := utils.ValidateRequired("apiKey", req.APIKey); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
	}
	if req.UserEmail != "" {
		if err := utils.ValidateEmail("userEmail", req.UserEmail); err != nil {
			return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequestError, err.Error())
		}
	}
	if !s.bridge.IsOriginAllowed(req.OpenerOrigin) {
		return nil, serviceerror.CustomServiceError(serviceerror.ForbiddenError,
			fmt.Sprintf("origin %q is not allowed to open the consent popup", req.OpenerOrigin))
	}

	now := s.now()
	session := &Session{
		ID:           utils.GenerateUUID(),
		Nonce:        utils.GenerateUUID(),
		APIKey:       req.APIKey,
		UserEmail:    req.UserEmail,
		UserName:     utils.SanitizeString(req.UserName),
		Picture:      req.Picture,
		OpenerOrigin: utils.NormalizeOrigin(req.OpenerOrigin),
		UserAgent:    req.UserAgent,
		ClientIP:     req.ClientIP,
		Step:         StepAccount,
		Permissions:  permission.Request{},
		Form:         profile.NewFormData(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var (
		perms permission.Request
		dev   *profile.DeveloperProfile
		user  *profile.UserProfile
		g     errgroup.Group
	)
	g.Go(func() error {
		p, err := s.backend.GetPermissions(ctx, req.APIKey)
		if err != nil {
			s.logger.Warn("Permission lookup failed", log.String("session_id", session.ID), log.Error(err))
			return nil
		}
		perms = p
		return nil
	})
	g.Go(func() error {
		d, err := s.backend.GetDeveloperProfile(ctx, req.APIKey)
		if err != nil {
			s.logger.Warn("Developer profile lookup failed", log.String("session_id", session.ID), log.Error(err))
			return nil
		}
		dev = d
		return nil
	})
	if req.UserEmail != "" {
		g.Go(func() error {
			u, err := s.backend.GetUserProfile(ctx, req.UserEmail)
			if err != nil {
				s.logger.Warn("User profile lookup failed", log.String("session_id", session.ID), log.Error(err))
				return nil
			}
			user = u
			return nil
		})
	}
	_ = g.Wait()

	if perms != nil {
		session.Permissions = perms
		if unknown := perms.UnknownFields(); len(unknown) > 0 {
			s.logger.Warn("Permission request lists fields outside the catalog",
				log.String("session_id", session.ID), log.Any("fields", unknown))
		}
		if unknown := perms.UnknownCategories(); len(unknown) > 0 {
			s.logger.Warn("Permission request lists unknown categories",
				log.String("session_id", session.ID), log.Any("categories", unknown))
		}
	}
	session.Developer = dev
	if user != nil {
		session.Form = profile.FromUserProfile(user)
	}

	if dev != nil && dev.Email != "" && req.UserEmail != "" {
		found, err := s.backend.SignedUp(ctx, req.UserEmail, dev.Email)
		if err != nil {
			s.logger.Warn("Sign-up check failed", log.String("session_id", session.ID), log.Error(err))
		} else {
			session.Found = &found
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", log.String("session_id", session.ID), log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "failed to save session")
	}

	metrics.RecordSessionStarted()
	s.logger.Info("Wizard session started",
		log.String("session_id", session.ID),
		log.Int("required_fields", session.Permissions.TotalRequired()),
		log.Bool("returning", session.IsReturning()))
	return session, nil
}

// GetSession returns the session state
func (s *wizardService) GetSession(ctx context.Context, id string) (*Session, *serviceerror.ServiceError) {
	return s.load(ctx, id)
}

// GetView returns the render model of the session's current step
func (s *wizardService) GetView(ctx context.Context, id string) (*View, *serviceerror.ServiceError) {
	session, svcErr := s.load(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	return BuildView(session, nil), nil
}

// Continue leaves the account step. Returning users complete immediately
// with their stored profile; everyone else moves to the consent step.
func (s *wizardService) Continue(ctx context.Context, id string) (*Session, *serviceerror.ServiceError) {
	return s.mutate(ctx, id, func(session *Session) *serviceerror.ServiceError {
		if session.Step != StepAccount {
			return serviceerror.CustomServiceError(invalidStepError, "continue is only available on the account step")
		}
		if !session.IsReturning() {
			session.Step = StepConsent
			return nil
		}
		return s.complete(ctx, session, PathReturning)
	})
}

// UpdateField stores one form value verbatim
func (s *wizardService) UpdateField(ctx context.Context, id string, update FieldUpdate) (*Session, *serviceerror.ServiceError) {
	return s.mutate(ctx, id, func(session *Session) *serviceerror.ServiceError {
		if session.Step != StepConsent {
			return serviceerror.CustomServiceError(invalidStepError, "fields can only be edited on the consent step")
		}
		return applyUpdate(session, update)
	})
}

// UploadPhoto stores an image as a data URL under basic.profilePhoto
func (s *wizardService) UploadPhoto(ctx context.Context, id, contentType string, data []byte) (*Session, *serviceerror.ServiceError) {
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, serviceerror.CustomServiceError(serviceerror.PayloadTooLargeError,
			fmt.Sprintf("profile photo exceeds %d bytes", s.opts.MaxUploadBytes))
	}
	if len(data) == 0 {
		return nil, serviceerror.CustomServiceError(unsupportedUploadError, "profile photo is empty")
	}
	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") || !uploadTypeAccepted(contentType) {
		return nil, serviceerror.CustomServiceError(unsupportedUploadError,
			fmt.Sprintf("profile photo must be an image, got %q", sniffed))
	}

	return s.mutate(ctx, id, func(session *Session) *serviceerror.ServiceError {
		if session.Step != StepConsent {
			return serviceerror.CustomServiceError(invalidStepError, "photos can only be uploaded on the consent step")
		}
		dataURL := "data:" + sniffed + ";base64," + base64.StdEncoding.EncodeToString(data)
		_ = session.Form.Set(catalog.CategoryBasic, catalog.FieldProfilePhoto, dataURL)
		return nil
	})
}

// uploadTypeAccepted reports whether the declared type of an upload is
// compatible with an image. Browsers label unknown files
// application/octet-stream, so the sniffed type decides in that case.
func uploadTypeAccepted(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "" || mediaType == "application/octet-stream" || strings.HasPrefix(mediaType, "image/")
}

// Grant validates the consent step and completes the flow. When a required
// field is blank the edits are kept, nothing is sent and the missing fields
// are reported.
func (s *wizardService) Grant(ctx context.Context, id string, req *GrantRequest) (*Session, *serviceerror.ServiceError) {
	var validationErr *serviceerror.ServiceError
	session, svcErr := s.mutate(ctx, id, func(session *Session) *serviceerror.ServiceError {
		if session.Step != StepConsent {
			return serviceerror.CustomServiceError(invalidStepError, "grant is only available on the consent step")
		}
		if req != nil {
			for _, update := range req.Fields {
				if err := applyUpdate(session, update); err != nil {
					return err
				}
			}
		}

		if missing := session.Permissions.Missing(session.Form); len(missing) > 0 {
			details := make([]string, 0, len(missing))
			for _, ref := range missing {
				details = append(details, ref.String())
			}
			metrics.RecordValidationFailure()
			validationErr = serviceerror.WithDetails(missingFieldsError, missingFieldsError.ErrorDescription, details)
			return nil
		}
		return s.complete(ctx, session, PathConsent)
	})
	if svcErr != nil {
		return nil, svcErr
	}
	if validationErr != nil {
		return session, validationErr
	}
	return session, nil
}

// GoBack returns from the consent step to the account step
func (s *wizardService) GoBack(ctx context.Context, id string) (*Session, *serviceerror.ServiceError) {
	return s.mutate(ctx, id, func(session *Session) *serviceerror.ServiceError {
		if session.Step != StepConsent {
			return serviceerror.CustomServiceError(invalidStepError, "already on the account step")
		}
		session.Step = StepAccount
		return nil
	})
}

// GetResult returns the bridge message of a completed session
func (s *wizardService) GetResult(ctx context.Context, id string) (*bridge.Envelope, *serviceerror.ServiceError) {
	session, svcErr := s.load(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if !session.Completed || session.Result == nil {
		return nil, serviceerror.CustomServiceError(invalidStepError, "the consent flow has not completed")
	}
	return session.Result, nil
}

// DeliverResult returns the bridge message of a completed session the first
// time it is asked for. Later calls fail so the popup page posts only once.
func (s *wizardService) DeliverResult(ctx context.Context, id string) (*bridge.Envelope, *serviceerror.ServiceError) {
	if !utils.IsValidUUID(id) {
		return nil, sessionNotFound(id)
	}
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ConflictError, err.Error())
	}
	defer unlock()

	session, svcErr := s.load(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if !session.Completed || session.Result == nil {
		return nil, serviceerror.CustomServiceError(invalidStepError, "the consent flow has not completed")
	}
	if session.Delivered {
		return nil, serviceerror.CustomServiceError(sessionCompletedError,
			"the consent result was already sent, you can close this window")
	}

	session.Delivered = true
	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", log.String("session_id", id), log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "failed to save session")
	}
	return session.Result, nil
}

// complete builds the bridge message and records the consent. It runs at most
// once per session because mutate rejects completed sessions.
func (s *wizardService) complete(ctx context.Context, session *Session, path string) *serviceerror.ServiceError {
	envelope, err := s.bridge.NewEnvelope(bridge.SessionRef{
		SessionID: session.ID,
		Nonce:     session.Nonce,
		APIKey:    session.APIKey,
		UserEmail: session.UserEmail,
		Origin:    session.OpenerOrigin,
	}, session.Form)
	if err != nil {
		s.logger.Error("Failed to build bridge message", log.String("session_id", session.ID), log.Error(err))
		if errors.Is(err, bridge.ErrOriginNotAllowed) {
			return serviceerror.CustomServiceError(serviceerror.ForbiddenError, err.Error())
		}
		return serviceerror.CustomServiceError(serviceerror.InternalServerError, "failed to build bridge message")
	}

	location, err := s.geo.Lookup(ctx, session.ClientIP)
	if err != nil {
		s.logger.Warn("Geolocation lookup failed", log.String("session_id", session.ID), log.Error(err))
		location = nil
	}

	record := consentlog.Build(consentlog.BuildInput{
		APIKey:      session.APIKey,
		UserEmail:   session.UserEmail,
		Developer:   session.Developer,
		Permissions: session.Permissions,
		Device:      device.Classify(session.UserAgent),
		Location:    location,
		RiskLevel:   s.opts.RiskLevel,
		Now:         s.now(),
	})
	if svcErr := s.consentLog.Record(ctx, record); svcErr != nil {
		s.logger.Error("Consent record was not stored locally",
			log.String("session_id", session.ID), log.String("error", svcErr.ErrorDescription))
	}

	session.Completed = true
	session.Result = envelope
	session.RecordID = record.ID
	metrics.RecordConsentGranted(path)
	s.logger.Info("Consent flow completed",
		log.String("session_id", session.ID),
		log.String("record_id", record.ID),
		log.String("path", path))
	return nil
}

func sessionNotFound(id string) *serviceerror.ServiceError {
	return serviceerror.CustomServiceError(sessionNotFoundError, fmt.Sprintf("session %s not found", id))
}

func (s *wizardService) load(ctx context.Context, id string) (*Session, *serviceerror.ServiceError) {
	if !utils.IsValidUUID(id) {
		return nil, sessionNotFound(id)
	}
	session, err := s.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, sessionNotFound(id)
	}
	if err != nil {
		s.logger.Error("Failed to load session", log.String("session_id", id), log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "failed to load session")
	}
	return session, nil
}

// mutate runs fn on a locked, non-completed session and saves the result.
// The session is saved whenever fn returns nil.
func (s *wizardService) mutate(ctx context.Context, id string, fn func(*Session) *serviceerror.ServiceError) (*Session, *serviceerror.ServiceError) {
	// session ids are UUIDs; anything else never gets a lock
	if !utils.IsValidUUID(id) {
		return nil, sessionNotFound(id)
	}
	unlock, err := s.sessions.Lock(ctx, id)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ConflictError, err.Error())
	}
	defer unlock()

	session, svcErr := s.load(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	if session.Completed {
		return nil, serviceerror.CustomServiceError(sessionCompletedError, sessionCompletedError.ErrorDescription)
	}

	if svcErr := fn(session); svcErr != nil {
		return nil, svcErr
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to save session", log.String("session_id", id), log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.InternalServerError, "failed to save session")
	}
	return session, nil
}

// applyUpdate sets a value for a field that the developer requested.
func applyUpdate(session *Session, update FieldUpdate) *serviceerror.ServiceError {
	if !catalog.IsValidCategory(update.Category) {
		return serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("unknown category %q", update.Category))
	}
	if update.Field == catalog.FieldProfilePhoto {
		return serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			"profile photo must be uploaded as an image")
	}
	requested := false
	for _, f := range session.Permissions[update.Category] {
		if f == update.Field {
			requested = true
			break
		}
	}
	if !requested {
		return serviceerror.CustomServiceError(serviceerror.InvalidRequestError,
			fmt.Sprintf("field %s.%s was not requested", update.Category, update.Field))
	}
	// values are stored verbatim
	_ = session.Form.Set(update.Category, update.Field, update.Value)
	return nil
}
