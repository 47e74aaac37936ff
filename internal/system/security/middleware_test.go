/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
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

package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

const signingKey = "test-signing-key"

func TestMain(m *testing.M) {
	log.Init("ERROR")
	m.Run()
}

func withAuthConfig(t *testing.T, auth config.AuthConfig) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth = auth
	config.OverrideRuntime(cfg)
}

func signedToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/users/groups/sig/merge", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func statusOf(err error) int {
	if clientError, ok := err.(*errors2.ClientError); ok {
		return clientError.StatusCode
	}
	return 0
}

func TestAuthnAndAuthz_DisabledWithoutSigningKey(t *testing.T) {
	withAuthConfig(t, config.AuthConfig{})

	initiator, err := AuthnAndAuthz(requestWithToken(""), "users:merge")
	require.NoError(t, err)
	assert.Equal(t, AnonymousInitiator, initiator)
}

func TestAuthnAndAuthz(t *testing.T) {
	withAuthConfig(t, config.AuthConfig{
		JWTSigningKey:  signingKey,
		Audience:       "user-admin",
		RequiredScopes: map[string][]string{"users:merge": {"users:write"}},
	})
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong key", signedToken(t, jwt.MapClaims{"sub": "admin", "aud": "user-admin", "exp": exp, "scope": "users:write"}, "other"), http.StatusUnauthorized},
		{"wrong audience", signedToken(t, jwt.MapClaims{"sub": "admin", "aud": "shop", "exp": exp, "scope": "users:write"}, signingKey), http.StatusUnauthorized},
		{"expired", signedToken(t, jwt.MapClaims{"sub": "admin", "aud": "user-admin", "exp": time.Now().Add(-time.Hour).Unix(), "scope": "users:write"}, signingKey), http.StatusUnauthorized},
		{"missing scope", signedToken(t, jwt.MapClaims{"sub": "admin", "aud": "user-admin", "exp": exp, "scope": "users:read"}, signingKey), http.StatusForbidden},
		{"granted", signedToken(t, jwt.MapClaims{"sub": "admin", "aud": "user-admin", "exp": exp, "scope": "users:read users:write"}, signingKey), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initiator, err := AuthnAndAuthz(requestWithToken(tt.token), "users:merge")
			if tt.status == 0 {
				require.NoError(t, err)
				assert.Equal(t, "admin", initiator)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.status, statusOf(err))
		})
	}
}

func TestAuthnAndAuthz_OperationWithoutScopes(t *testing.T) {
	withAuthConfig(t, config.AuthConfig{JWTSigningKey: signingKey})
	token := signedToken(t, jwt.MapClaims{"sub": "viewer", "exp": time.Now().Add(time.Hour).Unix()}, signingKey)

	initiator, err := AuthnAndAuthz(requestWithToken(token), "users:read")
	require.NoError(t, err)
	assert.Equal(t, "viewer", initiator)
}
