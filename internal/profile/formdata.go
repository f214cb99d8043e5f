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

package profile

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
)

const accessToReadPostKey = "accessToReadPost"

// dateLength is the YYYY-MM-DD prefix kept from stored timestamps.
const dateLength = 10

// FormData is the editable profile collected by the wizard and posted to the opener.
// Each group maps field name to its current value.
type FormData struct {
	Basic            map[string]string
	AccessToReadPost bool
	Personal         map[string]string
	Business         map[string]string
}

// NewFormData returns form state with every catalog field present and blank.
func NewFormData() FormData {
	return FormData{
		Basic: map[string]string{
			catalog.FieldProfilePhoto: "",
			catalog.FieldEmail:        "",
			catalog.FieldName:         "",
		},
		Personal: map[string]string{
			catalog.FieldPhoneNumber:     "",
			catalog.FieldPhysicalAddress: "",
			catalog.FieldMailingAddress:  "",
			catalog.FieldDateOfBirth:     "",
			catalog.FieldGender:          "",
		},
		Business: map[string]string{
			catalog.FieldBusinessName:        "",
			catalog.FieldBusinessEmail:       "",
			catalog.FieldBusinessPhoneNumber: "",
			catalog.FieldNumberOfEmployees:   "",
			catalog.FieldDateOfFoundation:    "",
		},
	}
}

// FromUserProfile loads stored profile values into form state. A group the
// profile lacks keeps its blank defaults. Date fields are cut to their
// first ten characters; no other value is changed.
func FromUserProfile(p *UserProfile) FormData {
	form := NewFormData()
	if p == nil {
		return form
	}

	if b := p.Basic; b != nil {
		form.Basic = map[string]string{
			catalog.FieldProfilePhoto: string(b.ProfilePhoto),
			catalog.FieldEmail:        string(b.Email),
			catalog.FieldName:         string(b.Name),
		}
		form.AccessToReadPost = b.AccessToReadPost
	}
	if pi := p.Personal; pi != nil {
		form.Personal = map[string]string{
			catalog.FieldPhoneNumber:     string(pi.PhoneNumber),
			catalog.FieldPhysicalAddress: string(pi.PhysicalAddress),
			catalog.FieldMailingAddress:  string(pi.MailingAddress),
			catalog.FieldDateOfBirth:     sliceDate(string(pi.DateOfBirth)),
			catalog.FieldGender:          string(pi.Gender),
		}
	}
	if bi := p.Business; bi != nil {
		form.Business = map[string]string{
			catalog.FieldBusinessName:        string(bi.BusinessName),
			catalog.FieldBusinessEmail:       string(bi.BusinessEmail),
			catalog.FieldBusinessPhoneNumber: string(bi.BusinessPhoneNumber),
			catalog.FieldNumberOfEmployees:   string(bi.NumberOfEmployees),
			catalog.FieldDateOfFoundation:    sliceDate(string(bi.DateOfFoundation)),
		}
	}
	return form
}

func sliceDate(v string) string {
	if len(v) > dateLength {
		return v[:dateLength]
	}
	return v
}

func (f *FormData) group(c catalog.Category) (map[string]string, error) {
	switch c {
	case catalog.CategoryBasic:
		if f.Basic == nil {
			f.Basic = map[string]string{}
		}
		return f.Basic, nil
	case catalog.CategoryPersonal:
		if f.Personal == nil {
			f.Personal = map[string]string{}
		}
		return f.Personal, nil
	case catalog.CategoryBusiness:
		if f.Business == nil {
			f.Business = map[string]string{}
		}
		return f.Business, nil
	}
	return nil, fmt.Errorf("unknown category %q", c)
}

// Get returns the value of field in category, empty when unset.
func (f FormData) Get(c catalog.Category, field string) string {
	switch c {
	case catalog.CategoryBasic:
		return f.Basic[field]
	case catalog.CategoryPersonal:
		return f.Personal[field]
	case catalog.CategoryBusiness:
		return f.Business[field]
	}
	return ""
}

// Set stores value verbatim under field in category.
func (f *FormData) Set(c catalog.Category, field, value string) error {
	g, err := f.group(c)
	if err != nil {
		return err
	}
	g[field] = value
	return nil
}

// Clone returns a deep copy.
func (f FormData) Clone() FormData {
	return FormData{
		Basic:            cloneGroup(f.Basic),
		AccessToReadPost: f.AccessToReadPost,
		Personal:         cloneGroup(f.Personal),
		Business:         cloneGroup(f.Business),
	}
}

func cloneGroup(g map[string]string) map[string]string {
	out := make(map[string]string, len(g))
	for k, v := range g {
		out[k] = v
	}
	return out
}

// MarshalJSON writes {basic:{...,accessToReadPost}, personal:{...}, business:{...}}.
func (f FormData) MarshalJSON() ([]byte, error) {
	basic := make(map[string]interface{}, len(f.Basic)+1)
	for k, v := range f.Basic {
		basic[k] = v
	}
	basic[accessToReadPostKey] = f.AccessToReadPost

	return json.Marshal(map[string]interface{}{
		string(catalog.CategoryBasic):    basic,
		string(catalog.CategoryPersonal): nonNil(f.Personal),
		string(catalog.CategoryBusiness): nonNil(f.Business),
	})
}

func nonNil(g map[string]string) map[string]string {
	if g == nil {
		return map[string]string{}
	}
	return g
}

// UnmarshalJSON reads the shape written by MarshalJSON. Scalar values are kept as text.
func (f *FormData) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]FlexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	basic := toStrings(raw[string(catalog.CategoryBasic)])
	access, _ := strconv.ParseBool(basic[accessToReadPostKey])
	delete(basic, accessToReadPostKey)

	*f = FormData{
		Basic:            basic,
		AccessToReadPost: access,
		Personal:         toStrings(raw[string(catalog.CategoryPersonal)]),
		Business:         toStrings(raw[string(catalog.CategoryBusiness)]),
	}
	return nil
}

func toStrings(g map[string]FlexString) map[string]string {
	out := make(map[string]string, len(g))
	for k, v := range g {
		out[k] = string(v)
	}
	return out
}
