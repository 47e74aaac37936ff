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

package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClientErrorConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *ClientError
		status int
		is     func(error) bool
	}{
		{"validation", NewValidationError("page must be positive"), http.StatusBadRequest, IsValidation},
		{"not found", NewNotFoundError("no user u1"), http.StatusNotFound, IsNotFound},
		{"conflict", NewConflictError("group sig-1 is locked"), http.StatusConflict, IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, IsCascadeFailure(tt.err))
		})
	}
}

func TestServerErrorConstructors(t *testing.T) {
	cascade := NewCascadeFailure("reassign failed", sql.ErrTxDone)
	assert.True(t, IsCascadeFailure(cascade))
	assert.Equal(t, http.StatusInternalServerError, cascade.StatusCode)
	assert.ErrorIs(t, cascade, sql.ErrTxDone)

	unavailable := NewStoreUnavailableError("store down", sql.ErrConnDone)
	assert.True(t, IsStoreUnavailable(unavailable))
	assert.Equal(t, http.StatusServiceUnavailable, unavailable.StatusCode)
}

func TestNestedServerErrorCodes(t *testing.T) {
	inner := NewStoreUnavailableError("store down", sql.ErrConnDone)
	outer := NewCascadeFailure("merge failed", pkgerrors.Wrap(inner, "reassign question answers"))

	assert.True(t, IsCascadeFailure(outer))
	assert.True(t, IsStoreUnavailable(outer))
	assert.False(t, IsNotFound(outer))
}
