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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  port: 3100
database:
  hostname: "db.local"
  database: "trustlens"
backend:
  base_url: "http://backend:5000"
  timeout: 3s
bridge:
  allowed_origins: ["https://app.example.com"]
  signing_secret: "0123456789abcdef0123456789abcdef"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 3100, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, 15*time.Minute, cfg.Session.TTL)
	assert.Equal(t, int64(2<<20), cfg.Wizard.MaxUploadBytes)
	assert.Equal(t, "https://ipapi.co", cfg.Geo.URL)
	assert.True(t, cfg.Geo.ForwardClientIP)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("TRUSTLENS_BACKEND_BASE_URL", "http://override:5000")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "http://override:5000", cfg.Backend.BaseURL)
}

func TestLoad_ShippedDeployment(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "cmd", "server", "repository", "conf", "deployment.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Geo.ForwardClientIP)
	assert.NotContains(t, cfg.Bridge.AllowedOrigins, "*")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 3000},
			Database: DatabaseConfig{Hostname: "h", Database: "d"},
			Backend:  BackendConfig{BaseURL: "http://backend"},
			Session:  SessionConfig{Store: SessionStoreMemory},
			Bridge: BridgeConfig{
				AllowedOrigins: []string{"https://app.example.com"},
				SigningSecret:  "0123456789abcdef0123456789abcdef",
			},
			Wizard: WizardConfig{MaxUploadBytes: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "invalid server port"},
		{name: "no backend", mutate: func(c *Config) { c.Backend.BaseURL = "" }, wantErr: "backend base URL"},
		{name: "wildcard origin", mutate: func(c *Config) { c.Bridge.AllowedOrigins = []string{"*"} }, wantErr: "wildcard"},
		{name: "no origins", mutate: func(c *Config) { c.Bridge.AllowedOrigins = nil }, wantErr: "allowed origin"},
		{name: "short secret", mutate: func(c *Config) { c.Bridge.SigningSecret = "short" }, wantErr: "signing secret"},
		{name: "redis without addr", mutate: func(c *Config) { c.Session.Store = SessionStoreRedis }, wantErr: "redis address"},
		{name: "unknown store", mutate: func(c *Config) { c.Session.Store = "etcd" }, wantErr: "unsupported session store"},
		{name: "upload ceiling", mutate: func(c *Config) { c.Wizard.MaxUploadBytes = 0 }, wantErr: "max upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBridgeConfig_IsOriginAllowed(t *testing.T) {
	b := BridgeConfig{AllowedOrigins: []string{"https://app.example.com/"}}
	assert.True(t, b.IsOriginAllowed("https://app.example.com"))
	assert.True(t, b.IsOriginAllowed("HTTPS://APP.EXAMPLE.COM"))
	assert.False(t, b.IsOriginAllowed("https://evil.example.com"))
	assert.False(t, b.IsOriginAllowed(""))
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Hostname: "h", Port: 3306, Database: "db"}
	assert.Equal(t, "u:p@tcp(h:3306)/db?parseTime=true&multiStatements=true", d.GetDSN())
}
