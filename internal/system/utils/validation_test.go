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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
)

type sample struct {
	Name  string `json:"name" validate:"required,max=5"`
	Size  int    `json:"page_size" validate:"min=1"`
	Order string `json:"order" validate:"omitempty,oneof=asc desc"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sample{Name: "abc", Size: 1}))

	err := ValidateStruct(sample{Name: "toolong", Size: 0, Order: "up"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Contains(t, err.Error(), "name must be at most 5 characters")
	assert.Contains(t, err.Error(), "page_size must be at least 1")
	assert.Contains(t, err.Error(), "order must be one of: asc desc")
}
