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

// Package permission models the set of profile fields a developer requests.
package permission

import (
	"strings"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

// Request maps each category to the ordered list of fields requested in it.
type Request map[catalog.Category][]string

// FieldRef identifies a field within its category.
type FieldRef struct {
	Category catalog.Category `json:"category"`
	Field    string           `json:"field"`
}

// Section is a non-empty category of a request.
type Section struct {
	Category catalog.Category
	Fields   []string
}

// Sections returns the categories with at least one field, in display order.
func (r Request) Sections() []Section {
	var out []Section
	for _, c := range catalog.Categories {
		if fields := r[c]; len(fields) > 0 {
			out = append(out, Section{Category: c, Fields: fields})
		}
	}
	return out
}

// RequiredFields returns every requested field except optional ones.
func (r Request) RequiredFields() []FieldRef {
	var out []FieldRef
	for _, s := range r.Sections() {
		for _, f := range s.Fields {
			if !catalog.IsOptional(f) {
				out = append(out, FieldRef{Category: s.Category, Field: f})
			}
		}
	}
	return out
}

// TotalRequired returns len(RequiredFields()).
func (r Request) TotalRequired() int {
	return len(r.RequiredFields())
}

// AllFields flattens the request in display order.
func (r Request) AllFields() []string {
	var out []string
	for _, s := range r.Sections() {
		out = append(out, s.Fields...)
	}
	return out
}

// Categories returns the names of the categories present in the request,
// including those with an empty list.
func (r Request) Categories() []string {
	var out []string
	for _, c := range catalog.Categories {
		if _, ok := r[c]; ok {
			out = append(out, string(c))
		}
	}
	return out
}

// Missing returns the required fields whose form value is empty or whitespace.
func (r Request) Missing(form profile.FormData) []FieldRef {
	var out []FieldRef
	for _, ref := range r.RequiredFields() {
		if strings.TrimSpace(form.Get(ref.Category, ref.Field)) == "" {
			out = append(out, ref)
		}
	}
	return out
}

// UnknownFields returns requested fields the catalog has no entry for.
func (r Request) UnknownFields() []string {
	var out []string
	for _, f := range r.AllFields() {
		if !catalog.Known(f) {
			out = append(out, f)
		}
	}
	return out
}

// UnknownCategories returns category keys outside basic, personal and business.
// Fields under them are never rendered.
func (r Request) UnknownCategories() []string {
	var out []string
	for c := range r {
		if !catalog.IsValidCategory(c) {
			out = append(out, string(c))
		}
	}
	return out
}

// String renders a FieldRef as category.field.
func (f FieldRef) String() string {
	return string(f.Category) + "." + f.Field
}
