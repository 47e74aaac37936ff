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

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	usersvc "github.com/wso2/identity-user-resolution-service/internal/user/service"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

type staticSource struct {
	svc usersvc.UserServiceInterface
	err error
}

func (s staticSource) GetUserService() (usersvc.UserServiceInterface, error) {
	return s.svc, s.err
}

func TestCheckReadiness(t *testing.T) {
	ready := usersvc.NewUserService(usersvc.Options{Store: store.NewMemoryStore()})

	assert.NoError(t, NewHealthCheckService(staticSource{svc: ready}).CheckReadiness(context.Background()))

	err := NewHealthCheckService(staticSource{err: errors.New("no datasource")}).CheckReadiness(context.Background())
	assert.ErrorContains(t, err, "no datasource")
}
