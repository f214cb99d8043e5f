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
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wso2/trustlens-consent-middleware/internal/backend"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/codes"
	"github.com/wso2/trustlens-consent-middleware/internal/system/error/serviceerror"
	"github.com/wso2/trustlens-consent-middleware/internal/system/log"
)

var (
	errPasswordMismatch = errors.New("Passwords do not match")
	errPasswordTooShort = errors.New("Password must be at least 6 characters long")
	errInvalidRole      = errors.New("role must be user or developer")
)

var registrationFailedError = serviceerror.ServiceError{
	Type:             serviceerror.ClientErrorType,
	Code:             codes.RegistrationFailed,
	Error:            "registration_failed",
	ErrorDescription: "Registration failed",
}

// RegistrationServiceInterface defines account sign-up
type RegistrationServiceInterface interface {
	Register(ctx context.Context, form *RegistrationForm) (*RegistrationResponse, *serviceerror.ServiceError)
}

type registrationService struct {
	backend backend.ClientInterface
	logger  *log.Logger
}

func newRegistrationService(backendClient backend.ClientInterface) RegistrationServiceInterface {
	return &registrationService{
		backend: backendClient,
		logger:  log.GetLogger().With(log.String(log.LoggerKeyComponentName, "RegistrationService")),
	}
}

// Register validates the form and creates the account on the backend. The
// caller is redirected to the login page only when the backend accepts it.
func (s *registrationService) Register(ctx context.Context, form *RegistrationForm) (*RegistrationResponse, *serviceerror.ServiceError) {
	if err := validateForm(form); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.ValidationError, err.Error())
	}

	err := s.backend.SignUp(ctx, &backend.SignUpRequest{
		Email:    form.Email,
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
		Role:     form.Role,
	})
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode >= http.StatusBadRequest && statusErr.StatusCode < http.StatusInternalServerError {
			s.logger.Info("Backend rejected registration", log.Int("status", statusErr.StatusCode))
			return nil, serviceerror.CustomServiceError(registrationFailedError, "Registration failed: the account could not be created")
		}
		s.logger.Error("Registration call failed", log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.UpstreamError, "Registration failed: please try again later")
	}

	s.logger.Info("Account registered", log.String("role", form.Role))
	return &RegistrationResponse{Message: "Registration successful", Redirect: LoginPath}, nil
}

// validateForm trims the form, checks its binding rules and fills in the
// default role.
func validateForm(form *RegistrationForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := binding.Validator.ValidateStruct(form); err != nil {
		return validationMessage(err)
	}
	if form.Role == "" {
		form.Role = RoleUser
	}
	return nil
}

var fieldLabels = map[string]string{
	"Name":            "name",
	"Email":           "email",
	"Password":        "password",
	"ConfirmPassword": "confirmPassword",
	"Role":            "role",
}

// tagRank orders rule failures the way the form reports them: missing values
// first, then the email format, then the password checks.
var tagRank = map[string]int{"required": 0, "email": 1, "eqfield": 2, "min": 3, "oneof": 4}

// validationMessage turns a binding failure into the message shown on the
// form. Errors that are not rule failures are returned as they are.
func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	first := fieldErrs[0]
	for _, fe := range fieldErrs[1:] {
		if rank(fe.Tag()) < rank(first.Tag()) {
			first = fe
		}
	}

	label := fieldLabels[first.StructField()]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", label)
	case "email":
		return fmt.Errorf("%s is not a valid email address", label)
	case "eqfield":
		return errPasswordMismatch
	case "min":
		return errPasswordTooShort
	case "oneof":
		return errInvalidRole
	default:
		return fmt.Errorf("%s is invalid", label)
	}
}

func rank(tag string) int {
	if r, ok := tagRank[tag]; ok {
		return r
	}
	return len(tagRank)
}
