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
	"time"

	"github.com/wso2/trustlens-consent-middleware/internal/bridge"
	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

// Wizard steps.
const (
	StepAccount = 1
	StepConsent = 2
)

// Completion paths, used as metric labels.
const (
	PathReturning = "returning"
	PathConsent   = "consent"
)

// Session is the server-side state of one popup.
type Session struct {
	ID           string                    `json:"id"`
	Nonce        string                    `json:"nonce"`
	APIKey       string                    `json:"apiKey"`
	UserEmail    string                    `json:"userEmail"`
	UserName     string                    `json:"userName,omitempty"`
	Picture      string                    `json:"picture,omitempty"`
	OpenerOrigin string                    `json:"openerOrigin"`
	UserAgent    string                    `json:"userAgent,omitempty"`
	ClientIP     string                    `json:"clientIp,omitempty"`
	Step         int                       `json:"step"`
	Found        *bool                     `json:"found,omitempty"`
	Permissions  permission.Request        `json:"permissions"`
	Developer    *profile.DeveloperProfile `json:"developer,omitempty"`
	Form         profile.FormData          `json:"form"`
	Completed    bool                      `json:"completed"`
	Result       *bridge.Envelope          `json:"result,omitempty"`
	Delivered    bool                      `json:"delivered,omitempty"`
	RecordID     string                    `json:"recordId,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// IsReturning reports whether the backend found an existing sign-up.
func (s *Session) IsReturning() bool {
	return s.Found != nil && *s.Found
}

// StartRequest opens a wizard session.
type StartRequest struct {
	APIKey       string `json:"apiKey" binding:"required"`
	UserEmail    string `json:"userEmail"`
	UserName     string `json:"userName"`
	Picture      string `json:"picture"`
	OpenerOrigin string `json:"origin" binding:"required"`
	UserAgent    string `json:"-"`
	ClientIP     string `json:"-"`
}

// FieldUpdate sets one form value.
type FieldUpdate struct {
	Category catalog.Category `json:"category" binding:"required"`
	Field    string           `json:"field" binding:"required"`
	Value    string           `json:"value"`
}

// GrantRequest optionally carries final edits applied before validation.
type GrantRequest struct {
	Fields []FieldUpdate `json:"fields"`
}

// FieldView is one input of the consent step.
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
	Examples    string `json:"examples"`
	Security    string `json:"security"`
	Importance  string `json:"importance,omitempty"`
	InputType   string `json:"inputType"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
	Missing     bool   `json:"missing,omitempty"`
}

// SectionView is a non-empty category of the consent step.
type SectionView struct {
	Category    catalog.Category `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Fields      []FieldView      `json:"fields"`
}

// View is what a popup renders for the current step.
type View struct {
	SessionID     string                    `json:"sessionId"`
	Step          int                       `json:"step"`
	Completed     bool                      `json:"completed"`
	Returning     bool                      `json:"returning"`
	Title         string                    `json:"title"`
	Subtitle      string                    `json:"subtitle"`
	UserName      string                    `json:"userName,omitempty"`
	Picture       string                    `json:"picture,omitempty"`
	Developer     *profile.DeveloperProfile `json:"developer,omitempty"`
	AppPurpose    string                    `json:"appPurpose,omitempty"`
	Summary       string                    `json:"summary,omitempty"`
	TotalRequired int                       `json:"totalRequired"`
	Sections      []SectionView             `json:"sections,omitempty"`
	Missing       []string                  `json:"missing,omitempty"`
}
