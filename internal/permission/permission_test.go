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

package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
)

func sampleRequest() Request {
	return Request{
		catalog.CategoryBasic:    {catalog.FieldEmail, catalog.FieldName},
		catalog.CategoryPersonal: {catalog.FieldPhoneNumber},
		catalog.CategoryBusiness: {},
	}
}

func TestRequest_Sections(t *testing.T) {
	r := sampleRequest()
	sections := r.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, catalog.CategoryBasic, sections[0].Category)
	assert.Equal(t, catalog.CategoryPersonal, sections[1].Category)
	assert.Equal(t, 3, r.TotalRequired())
	assert.Equal(t, []string{"basic", "personal", "business"}, r.Categories())
	assert.Equal(t, []string{catalog.FieldEmail, catalog.FieldName, catalog.FieldPhoneNumber}, r.AllFields())
}

func TestRequest_ProfilePhotoIsOptional(t *testing.T) {
	r := Request{catalog.CategoryBasic: {catalog.FieldProfilePhoto, catalog.FieldName}}
	assert.Equal(t, []FieldRef{{Category: catalog.CategoryBasic, Field: catalog.FieldName}}, r.RequiredFields())
	assert.Equal(t, 2, len(r.AllFields()))
}

func TestRequest_Missing(t *testing.T) {
	r := sampleRequest()
	form := profile.NewFormData()
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldEmail, "jane@example.com"))
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldName, "Jane"))
	require.NoError(t, form.Set(catalog.CategoryPersonal, catalog.FieldPhoneNumber, "   "))

	missing := r.Missing(form)
	require.Len(t, missing, 1)
	assert.Equal(t, "personal.phoneNumber", missing[0].String())

	require.NoError(t, form.Set(catalog.CategoryPersonal, catalog.FieldPhoneNumber, "0771234567"))
	assert.Empty(t, r.Missing(form))
}

func TestRequest_UnknownFields(t *testing.T) {
	r := Request{
		catalog.CategoryBasic: {catalog.FieldName, "shoeSize"},
		"medical":             {"bloodType"},
	}
	assert.Equal(t, []string{"shoeSize"}, r.UnknownFields())
	assert.Equal(t, []string{"medical"}, r.UnknownCategories())
	assert.Equal(t, 2, r.TotalRequired())
}
