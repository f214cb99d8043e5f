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

package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
)

func sampleRef() SessionRef {
	return SessionRef{SessionID: "sid-1", Nonce: "nonce-1", APIKey: "key-1", UserEmail: "jane@example.com", Origin: testOrigin}
}

func TestNewEnvelope_TargetsAllowedOrigin(t *testing.T) {
	b := newTestBridge()
	form := profile.NewFormData()
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldProfilePhoto, "data:image/png;base64,AAAA"))

	envelope, err := b.NewEnvelope(sampleRef(), form)
	require.NoError(t, err)
	assert.Equal(t, testOrigin, envelope.TargetOrigin)
	assert.Equal(t, constants.BridgeMessageType, envelope.Message.Type)
	assert.NotEmpty(t, envelope.Message.Token)

	// later edits do not leak into the message
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldProfilePhoto, ""))
	assert.Equal(t, "data:image/png;base64,AAAA", envelope.Message.Data.Get(catalog.CategoryBasic, catalog.FieldProfilePhoto))
}

func TestNewEnvelope_RejectsOrigins(t *testing.T) {
	b := newTestBridge()
	for _, origin := range []string{"*", "", "https://evil.example.com", "javascript:alert(1)"} {
		ref := sampleRef()
		ref.Origin = origin
		_, err := b.NewEnvelope(ref, profile.NewFormData())
		assert.ErrorIs(t, err, ErrOriginNotAllowed, origin)
	}
}

func TestReceive(t *testing.T) {
	b := newTestBridge()
	form := profile.NewFormData()
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldProfilePhoto, "data:image/png;base64,AAAA"))
	envelope, err := b.NewEnvelope(sampleRef(), form)
	require.NoError(t, err)

	received, err := b.Receive(context.Background(), testOrigin, &envelope.Message)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", received.ProfilePhoto)
	assert.Equal(t, "sid-1", received.Claims.SessionID)

	other := envelope.Message
	other.Type = "SOMETHING_ELSE"
	_, err = b.Receive(context.Background(), testOrigin, &other)
	assert.ErrorIs(t, err, ErrIgnoredMessage)

	_, err = b.Receive(context.Background(), testOrigin, nil)
	assert.ErrorIs(t, err, ErrIgnoredMessage)

	_, err = b.Receive(context.Background(), "https://evil.example.com", &envelope.Message)
	assert.ErrorIs(t, err, ErrOriginNotAllowed)

	_, err = b.Receive(context.Background(), testOrigin, &envelope.Message)
	assert.ErrorIs(t, err, ErrTokenReplayed)
}

func TestReceive_RejectsAlteredData(t *testing.T) {
	b := newTestBridge()
	form := profile.NewFormData()
	require.NoError(t, form.Set(catalog.CategoryBasic, catalog.FieldEmail, "jane@example.com"))
	envelope, err := b.NewEnvelope(sampleRef(), form)
	require.NoError(t, err)

	altered := envelope.Message
	altered.Data = envelope.Message.Data.Clone()
	require.NoError(t, altered.Data.Set(catalog.CategoryBasic, catalog.FieldEmail, "mallory@example.com"))
	_, err = b.Receive(context.Background(), testOrigin, &altered)
	assert.ErrorIs(t, err, ErrDataMismatch)

	// a rejected attempt does not spend the token
	received, err := b.Receive(context.Background(), testOrigin, &envelope.Message)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", received.Data.Get(catalog.CategoryBasic, catalog.FieldEmail))
}

func TestPopupFeatures(t *testing.T) {
	assert.Equal(t,
		"width=650,height=600,top=100,left=315,resizable=no,toolbar=no,menubar=no,scrollbars=no,status=no",
		PopupFeatures(1280, 800))
	assert.Contains(t, PopupFeatures(320, 480), "top=0,left=0")
}
