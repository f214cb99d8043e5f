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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_AllFieldsDescribed(t *testing.T) {
	assert.Len(t, fields, 13)
	for name, e := range fields {
		assert.NotEmpty(t, e.label, name)
		assert.True(t, IsValidCategory(e.category), name)
		d := Describe(name)
		assert.NotEmpty(t, d.Reason, name)
		assert.NotEmpty(t, d.Description, name)
		assert.NotEmpty(t, d.Security, name)
		assert.NotEmpty(t, d.Examples, name)
	}
}

func TestDescribe_UnknownFieldFallsBack(t *testing.T) {
	d := Describe("shoeSize")
	assert.Equal(t, FallbackReason, d.Reason)
	assert.Equal(t, FallbackDescription, d.Description)
	assert.Equal(t, FallbackExamples, d.Examples)
	assert.Equal(t, FallbackSecurity, d.Security)
	assert.False(t, Known("shoeSize"))
	assert.Equal(t, "shoeSize", Label("shoeSize"))
}

func TestInputType(t *testing.T) {
	tests := map[string]string{
		FieldDateOfBirth:         InputDate,
		FieldDateOfFoundation:    InputDate,
		FieldEmail:               InputEmail,
		FieldBusinessEmail:       InputText,
		FieldPhoneNumber:         InputTel,
		FieldBusinessPhoneNumber: InputTel,
		FieldName:                InputText,
		FieldProfilePhoto:        InputFile,
	}
	for field, want := range tests {
		assert.Equal(t, want, InputType(field), field)
	}
}

func TestIsOptional(t *testing.T) {
	assert.True(t, IsOptional(FieldProfilePhoto))
	for name := range fields {
		if name != FieldProfilePhoto {
			assert.False(t, IsOptional(name), name)
		}
	}
}

func TestPlaceholderAndCategory(t *testing.T) {
	assert.Equal(t, "Enter your phone number", Placeholder(FieldPhoneNumber))
	c, ok := CategoryOf(FieldBusinessName)
	assert.True(t, ok)
	assert.Equal(t, CategoryBusiness, c)
	assert.Equal(t, "Essential information for account authentication", SectionOf(CategoryBasic).Description)
}
