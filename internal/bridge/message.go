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

// Package bridge carries the consent result from the popup to the opener window.
// Messages are posted to an explicit allow-listed origin and carry a signed
// token that correlates them with the popup session.
package bridge

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wso2/trustlens-consent-middleware/internal/catalog"
	"github.com/wso2/trustlens-consent-middleware/internal/profile"
	"github.com/wso2/trustlens-consent-middleware/internal/system/config"
	"github.com/wso2/trustlens-consent-middleware/internal/system/constants"
	"github.com/wso2/trustlens-consent-middleware/internal/system/utils"
)

// Message is the payload posted to the opener.
type Message struct {
	Type  string           `json:"type"`
	Data  profile.FormData `json:"data"`
	Token string           `json:"token"`
}

// Envelope is a message together with the origin it must be posted to.
type Envelope struct {
	TargetOrigin string  `json:"targetOrigin"`
	Message      Message `json:"message"`
}

var (
	// ErrOriginNotAllowed is returned for origins outside the allow-list.
	ErrOriginNotAllowed = errors.New("origin is not allowed")
	// ErrIgnoredMessage is returned for messages not tagged as TrustLens results.
	ErrIgnoredMessage = errors.New("message is not a TrustLens result")
	// ErrDataMismatch is returned when the message data is not the data the token was issued for.
	ErrDataMismatch = errors.New("message data does not match its token")
	// ErrTokenReplayed is returned when a token has already been accepted once.
	ErrTokenReplayed = errors.New("bridge token was already used")
)

// NonceStore remembers the nonces of accepted tokens.
type NonceStore interface {
	// ConsumeNonce marks nonce as used for ttl. It reports false when the
	// nonce had been used before.
	ConsumeNonce(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// SessionRef identifies the popup session a message belongs to.
type SessionRef struct {
	SessionID string
	Nonce     string
	APIKey    string
	UserEmail string
	Origin    string
}

// Bridge builds and receives cross-window messages.
type Bridge struct {
	cfg    *config.BridgeConfig
	tokens *TokenIssuer
	nonces NonceStore
}

// New creates a bridge from config. Accepted nonces are recorded in nonces.
func New(cfg *config.BridgeConfig, nonces NonceStore) *Bridge {
	return &Bridge{cfg: cfg, tokens: NewTokenIssuer(cfg), nonces: nonces}
}

// HashData returns the digest bound into tokens for data.
func HashData(data profile.FormData) (string, error) {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode message data: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// Tokens returns the token issuer.
func (b *Bridge) Tokens() *TokenIssuer {
	return b.tokens
}

// IsOriginAllowed reports whether origin may receive messages.
func (b *Bridge) IsOriginAllowed(origin string) bool {
	normalized := utils.NormalizeOrigin(origin)
	return normalized != "" && b.cfg.IsOriginAllowed(normalized)
}

// NewEnvelope builds the message for a completed session. data is copied.
func (b *Bridge) NewEnvelope(ref SessionRef, data profile.FormData) (*Envelope, error) {
	if !b.IsOriginAllowed(ref.Origin) {
		return nil, fmt.Errorf("%w: %q", ErrOriginNotAllowed, ref.Origin)
	}
	data = data.Clone()
	digest, err := HashData(data)
	if err != nil {
		return nil, err
	}
	token, err := b.tokens.Issue(ref.SessionID, ref.Nonce, ref.APIKey, ref.UserEmail, ref.Origin, digest)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		TargetOrigin: utils.NormalizeOrigin(ref.Origin),
		Message: Message{
			Type:  constants.BridgeMessageType,
			Data:  data,
			Token: token,
		},
	}, nil
}

// Received is an accepted message.
type Received struct {
	Data         profile.FormData
	ProfilePhoto string
	Claims       *Claims
}

// Receive validates a message that arrived at origin. Messages with other
// tags return ErrIgnoredMessage and should be dropped silently. A token is
// accepted once; its data must be the data it was issued with.
func (b *Bridge) Receive(ctx context.Context, origin string, msg *Message) (*Received, error) {
	if msg == nil || msg.Type != constants.BridgeMessageType {
		return nil, ErrIgnoredMessage
	}
	if !b.IsOriginAllowed(origin) {
		return nil, fmt.Errorf("%w: %q", ErrOriginNotAllowed, origin)
	}
	claims, err := b.tokens.Verify(msg.Token, origin)
	if err != nil {
		return nil, err
	}
	digest, err := HashData(msg.Data)
	if err != nil {
		return nil, err
	}
	if claims.DataHash == "" || claims.DataHash != digest {
		return nil, ErrDataMismatch
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		ttl = time.Second
	}
	fresh, err := b.nonces.ConsumeNonce(ctx, claims.Nonce, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to record bridge nonce: %w", err)
	}
	if !fresh {
		return nil, ErrTokenReplayed
	}
	return &Received{
		Data:         msg.Data,
		ProfilePhoto: msg.Data.Get(catalog.CategoryBasic, catalog.FieldProfilePhoto),
		Claims:       claims,
	}, nil
}
