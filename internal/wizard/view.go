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
	"fmt"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/permission"
)

const (
	titleReturning    = "Welcome Back"
	titleNew          = "Create TrustLens Account"
	subtitleReturning = "Continue with your existing account to securely authenticate"
	subtitleNew       = "Set up your secure digital identity to control your data"
	defaultAppName    = "This application"
)

// BuildView renders the session's current step. missing flags fields that
// failed the last grant attempt.
func BuildView(session *Session, missing []permission.FieldRef) *View {
	view := &View{
		SessionID:     session.ID,
		Step:          session.Step,
		Completed:     session.Completed,
		Returning:     session.IsReturning(),
		UserName:      session.UserName,
		Picture:       session.Picture,
		Developer:     session.Developer,
		TotalRequired: session.Permissions.TotalRequired(),
	}
	if view.Returning {
		view.Title, view.Subtitle = titleReturning, subtitleReturning
	} else {
		view.Title, view.Subtitle = titleNew, subtitleNew
	}

	appName := defaultAppName
	if session.Developer != nil {
		view.AppPurpose = session.Developer.Description
		if session.Developer.Name != "" {
			appName = session.Developer.Name
		}
	}
	view.Summary = fmt.Sprintf("%s is requesting access to %d pieces of your personal information",
		appName, view.TotalRequired)

	if session.Step != StepConsent {
		return view
	}

	flagged := make(map[string]bool, len(missing))
	for _, ref := range missing {
		flagged[ref.String()] = true
		view.Missing = append(view.Missing, ref.String())
	}

	for _, s := range session.Permissions.Sections() {
		heading := catalog.SectionOf(s.Category)
		section := SectionView{
			Category:    s.Category,
			Title:       heading.Title,
			Description: heading.Description,
		}
		for _, field := range s.Fields {
			desc := catalog.Describe(field)
			ref := permission.FieldRef{Category: s.Category, Field: field}
			section.Fields = append(section.Fields, FieldView{
				Name:        ref.String(),
				Label:       catalog.Label(field),
				Required:    !catalog.IsOptional(field),
				Reason:      desc.Reason,
				Description: desc.Description,
				Examples:    desc.Examples,
				Security:    desc.Security,
				Importance:  desc.Importance,
				InputType:   catalog.InputType(field),
				Value:       session.Form.Get(s.Category, field),
				Placeholder: catalog.Placeholder(field),
				Missing:     flagged[ref.String()],
			})
		}
		view.Sections = append(view.Sections, section)
	}
	return view
}
