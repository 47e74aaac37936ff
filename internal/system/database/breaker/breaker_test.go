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

package breaker

import (
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
)

func testConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		IntervalSeconds:  60,
		TimeoutSeconds:   60,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestExecute_PassesThroughQueryErrors(t *testing.T) {
	b := NewStoreBreaker("test", testConfig())
	queryErr := fmt.Errorf("syntax error at or near SELECT")

	for i := 0; i < 5; i++ {
		err := b.Execute("list users", func() error { return queryErr })
		assert.Equal(t, queryErr, err)
	}
	assert.Equal(t, "closed", b.State())
}

func TestExecute_OpensOnConnectivityFailures(t *testing.T) {
	b := NewStoreBreaker("test", testConfig())

	for i := 0; i < 2; i++ {
		err := b.Execute("list users", func() error { return driver.ErrBadConn })
		assert.True(t, errors2.IsStoreUnavailable(err))
	}
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Execute("list users", func() error {
		called = true
		return nil
	})
	assert.False(t, called, "open breaker must not reach the store")
	assert.True(t, errors2.IsStoreUnavailable(err))
}

func TestExecute_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	b := NewStoreBreaker("test", cfg)

	err := b.Execute("delete user", func() error { return driver.ErrBadConn })
	assert.True(t, errors2.IsStoreUnavailable(err))
	assert.NoError(t, b.Execute("delete user", func() error { return nil }))
	assert.Equal(t, "disabled", b.State())
}
