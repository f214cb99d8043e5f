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
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

// Claims bind a bridge message to the popup session that produced it.
type Claims struct {
	SessionID string `json:"sid"`
	Nonce     string `json:"nonce"`
	APIKey    string `json:"api_key"`
	Origin    string `json:"origin"`
	// DataHash is the digest of the message data the token was issued with.
	DataHash string `json:"data_sha256"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 correlation tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer from the bridge config.
func NewTokenIssuer(cfg *config.BridgeConfig) *TokenIssuer {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenIssuer{
		secret: []byte(cfg.SigningSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the session, nonce, target origin and data digest.
func (t *TokenIssuer) Issue(sessionID, nonce, apiKey, userEmail, origin, dataHash string) (string, error) {
	now := t.now()
	claims := Claims{
		SessionID: sessionID,
		Nonce:     nonce,
		APIKey:    apiKey,
		Origin:    utils.NormalizeOrigin(origin),
		DataHash:  dataHash,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        nonce,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign bridge token: %w", err)
	}
	return signed, nil
}

// ErrOriginMismatch is returned when a token was issued for another origin.
var ErrOriginMismatch = errors.New("token origin does not match")

// Verify checks signature, issuer, expiry and that the token was issued for origin.
func (t *TokenIssuer) Verify(tokenString, origin string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge token: %w", err)
	}
	if claims.Origin == "" || claims.Origin != utils.NormalizeOrigin(origin) {
		return nil, ErrOriginMismatch
	}
	return claims, nil
}
