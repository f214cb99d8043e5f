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

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	consentmodel "github.com/wso2/trustlens-consent-middleware/internal/consentlog/model"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/middleware"
)

type capture struct {
	path   string
	body   map[string]interface{}
	header http.Header
}

func newTestClient(t *testing.T, status int, response string) (*Client, *[]capture) {
	t.Helper()
	var calls []capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, capture{path: r.URL.Path, body: body, header: r.Header.Clone()})
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClient(&config.BackendConfig{BaseURL: srv.URL + "/", Timeout: time.Second}), &calls
}

func TestClient_GetPermissions(t *testing.T) {
	client, calls := newTestClient(t, http.StatusOK, `{"basic":["email","name"],"personal":["phoneNumber"],"business":[]}`)

	perms, err := client.GetPermissions(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name"}, perms[catalog.CategoryBasic])
	assert.Equal(t, 3, perms.TotalRequired())
	require.Len(t, *calls, 1)
	assert.Equal(t, PathGetPermissions, (*calls)[0].path)
	assert.Equal(t, "key-1", (*calls)[0].body["key"])
}

func TestClient_GetUserProfile(t *testing.T) {
	client, calls := newTestClient(t, http.StatusOK, `{"user":{"email":"jane@example.com","basic":{"name":"Jane"}}}`)

	user, err := client.GetUserProfile(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jane", string(user.Basic.Name))
	assert.Equal(t, "jane@example.com", (*calls)[0].body["email"])
}

func TestClient_SignedUpSendsBothEmails(t *testing.T) {
	client, calls := newTestClient(t, http.StatusOK, `{"found":true}`)

	found, err := client.SignedUp(context.Background(), "jane@example.com", "dev@acme.io")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "jane@example.com", (*calls)[0].body["userEmail"])
	assert.Equal(t, "dev@acme.io", (*calls)[0].body["devEmail"])
}

func TestClient_NonSuccessIsStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusNotFound, `{"message":"no such key"}`)

	_, err := client.GetDeveloperProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsStatusError(err))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, PathGetDevProfile, se.Endpoint)
}

func TestClient_LogConsentIgnoresBodyAndForwardsCorrelationID(t *testing.T) {
	client, calls := newTestClient(t, http.StatusOK, `not json`)
	ctx := middleware.WithCorrelationID(context.Background(), "corr-1")

	err := client.LogConsent(ctx, &consentmodel.ConsentRecord{ID: "r1", UserEmail: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, PathMiddleware, (*calls)[0].path)
	assert.Equal(t, "r1", (*calls)[0].body["id"])
	assert.Equal(t, "corr-1", (*calls)[0].header.Get("X-Correlation-ID"))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	client := NewClient(&config.BackendConfig{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	err := client.SignUp(context.Background(), &SignUpRequest{Email: "a@b.c"})
	require.Error(t, err)
	assert.False(t, IsStatusError(err))
}
