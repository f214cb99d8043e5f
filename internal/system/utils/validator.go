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
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
)

var validate = validator.New()

// ValidateRequired validates a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidatePagination validates limit and offset
func ValidatePagination(limit, offset int) error {
	if limit < 1 || limit > constants.MaxPageSize {
		return fmt.Errorf("limit must be between 1 and %d", constants.MaxPageSize)
	}
	if offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	return nil
}

// ValidateEmail validates a bare email address
func ValidateEmail(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if err := validate.Var(value, "email"); err != nil {
		return fmt.Errorf("%s is not a valid email address", fieldName)
	}
	return nil
}
