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
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/system/authn"
	"github.com/wso2/identity-user-resolution-service/internal/system/authz"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
)

// AnonymousInitiator is recorded as the audit initiator when token verification is not configured.
const AnonymousInitiator = "unauthenticated"

// AuthnAndAuthz authenticates the bearer token of the request and checks it grants the operation. It returns the
// token subject for auditing. When no signing key is configured every request is admitted.
func AuthnAndAuthz(r *http.Request, operation string) (string, error) {

	if !authn.Enabled() {
		return AnonymousInitiator, nil
	}

	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
	}

	claims, err := authn.ValidateAuthenticationAndReturnClaims(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
	if err != nil {
		return "", err
	}

	scope, _ := claims["scope"].(string)
	if !authz.ValidatePermission(scope, operation) {
		return "", errors.NewClientError(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: "Do not have permission to perform this operation",
		}, http.StatusForbidden)
	}
	return authn.Subject(claims), nil
}
