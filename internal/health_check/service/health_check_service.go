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
	"fmt"
	"time"

	usersvc "github.com/wso2/identity-user-resolution-service/internal/user/service"
)

const readinessTimeout = 2 * time.Second

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// UserServiceSource yields the user service whose store backs readiness.
type UserServiceSource interface {
	GetUserService() (usersvc.UserServiceInterface, error)
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	users UserServiceSource
}

func NewHealthCheckService(users UserServiceSource) HealthCheckServiceInterface {
	return &HealthCheckService{users: users}
}

// CheckReadiness reports whether the record store answers within readinessTimeout. An open store circuit counts as
// not ready.
func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	userService, err := h.users.GetUserService()
	if err != nil {
		return fmt.Errorf("failed to initialize user service: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := userService.Ping(ctx); err != nil {
		return fmt.Errorf("record store connectivity check failed: %w", err)
	}
	return nil
}
