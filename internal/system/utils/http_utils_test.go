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

package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	customerrors "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

func TestMain(m *testing.M) {
	log.Init("ERROR")
	m.Run()
}

func TestHandleError_StatusByErrorType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", customerrors.NewValidationError("page_size must be positive"), http.StatusBadRequest, customerrors.VALIDATION_FAILED.Code},
		{"not found", customerrors.NewNotFoundError("no user"), http.StatusNotFound, customerrors.NOT_FOUND.Code},
		{"conflict", customerrors.NewConflictError("locked"), http.StatusConflict, customerrors.WRITE_CONFLICT.Code},
		{"cascade", customerrors.NewCascadeFailure("reassign failed", fmt.Errorf("boom")), http.StatusInternalServerError, customerrors.CASCADE_FAILURE.Code},
		{"store down", customerrors.NewStoreUnavailableError("down", fmt.Errorf("dial tcp")), http.StatusServiceUnavailable, customerrors.STORE_UNAVAILABLE.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
			r = r.WithContext(context.WithValue(r.Context(), constants.TraceIDContextKey, "trace-1"))
			rec := httptest.NewRecorder()

			HandleError(rec, r, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body customerrors.ErrorMessage
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestHandleError_ServerErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, nil, customerrors.NewCascadeFailure("rolled back", fmt.Errorf("pq: relation secret_table")))
	assert.NotContains(t, rec.Body.String(), "secret_table")
}

func TestHandleDecodeError(t *testing.T) {
	decode := func(body string) error {
		var v struct {
			SurvivorId string `json:"survivor_id"`
		}
		dec := json.NewDecoder(strings.NewReader(body))
		dec.DisallowUnknownFields()
		return dec.Decode(&v)
	}

	assert.Contains(t, HandleDecodeError(decode(""), "merge"), "empty")
	assert.Contains(t, HandleDecodeError(decode(`{"x":1}`), "merge"), "Unknown field")
	assert.Contains(t, HandleDecodeError(decode(`{"survivor_id":`), "merge"), "truncated")
	assert.Contains(t, HandleDecodeError(decode(`{"survivor_id" 1}`), "merge"), "Malformed JSON")
	assert.Contains(t, HandleDecodeError(decode(`{"survivor_id":5}`), "merge"), "survivor_id")
	assert.Equal(t, "", HandleDecodeError(nil, "merge"))

	limited := http.MaxBytesReader(httptest.NewRecorder(), io.NopCloser(strings.NewReader(`{"survivor_id":"`+strings.Repeat("a", 64)+`"}`)), 16)
	var v map[string]string
	err := json.NewDecoder(limited).Decode(&v)
	assert.Contains(t, HandleDecodeError(err, "merge"), "exceeds 16 bytes")
}
