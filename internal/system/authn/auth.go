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

package authn

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

// Enabled reports whether bearer token verification is configured.
func Enabled() bool {
	return config.IsRuntimeInitialized() && config.GetRuntime().Config.Auth.JWTSigningKey != ""
}

// ValidateAuthenticationAndReturnClaims verifies an HS256 signed bearer token against the configured signing key
// and audience, and returns its claims.
func ValidateAuthenticationAndReturnClaims(token string) (jwt.MapClaims, error) {

	logger := log.GetLogger()
	authConfig := config.GetRuntime().Config.Auth

	if strings.Count(token, ".") != 2 {
		logger.Debug("Expecting a JWT token but received an opaque token.")
		return nil, unauthorizedError()
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if authConfig.Audience != "" {
		options = append(options, jwt.WithAudience(authConfig.Audience))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(authConfig.JWTSigningKey), nil
	}, options...)
	if err != nil || !parsed.Valid {
		logger.Debug("Bearer token verification failed.", log.Error(err))
		return nil, unauthorizedError()
	}
	return claims, nil
}

// ParseJWTClaims parses claims from a JWT without verifying the signature
func ParseJWTClaims(tokenString string) (jwt.MapClaims, error) {

	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
	if err != nil {
		errMsg := "Error occurred when parsing claims from JWT token."
		log.GetLogger().Debug(errMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PARSING_ERROR.Code,
			Message:     errors2.PARSING_ERROR.Message,
			Description: errMsg,
		}, err)
	}
	return claims, nil
}

// Subject returns the sub claim, used as the audit initiator.
func Subject(claims jwt.MapClaims) string {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "unknown"
	}
	return sub
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
