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

package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, forward bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.GeoConfig{Enabled: true, URL: srv.URL, Timeout: time.Second, ForwardClientIP: forward})
}

func TestLookup_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/", r.URL.Path)
		w.Write([]byte(`{"country_name":"Sri Lanka","ip":"203.0.113.9","city":"Colombo","region":"Western","country_code":"LK","asn":"AS1"}`))
	}, false)

	loc, err := client.Lookup(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, &Location{CountryName: "Sri Lanka", IP: "203.0.113.9", City: "Colombo", Region: "Western", CountryCode: "LK"}, loc)
}

func TestLookup_ForwardsPublicClientIP(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{}`))
	}, true)

	_, err := client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	_, err = client.Lookup(context.Background(), "10.0.0.4")
	require.NoError(t, err)
	assert.Equal(t, []string{"/8.8.8.8/json/", "/json/"}, paths)
}

func TestLookup_Failures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, false)
	_, err := client.Lookup(context.Background(), "")
	assert.ErrorContains(t, err, "429")

	disabled := NewClient(&config.GeoConfig{Enabled: false})
	_, err = disabled.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, ErrDisabled)
}
