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

package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/lock"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

func TestMain(m *testing.M) {
	log.Init("ERROR")
	m.Run()
}

func TestGetUserService_MemoryBackends(t *testing.T) {
	conf := config.Default()
	conf.DataSource.Type = config.DataSourceMemory
	config.OverrideRuntime(conf)
	SetUserService(nil)
	t.Cleanup(func() { SetUserService(nil) })

	first, err := NewUserProvider().GetUserService()
	require.NoError(t, err)
	second, err := NewUserProvider().GetUserService()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestNewLocker(t *testing.T) {
	locker, err := newLocker(config.LockConfig{Backend: config.LockBackendMemory, TTLSeconds: 5})
	require.NoError(t, err)
	assert.IsType(t, &lock.MemoryLock{}, locker)

	_, err = newLocker(config.LockConfig{Backend: "zookeeper"})
	assert.Error(t, err)
}
