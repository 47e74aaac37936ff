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

package managers

import (
	"net/http"

	"github.com/wso2/identity-user-resolution-service/internal/system/metrics"
	"github.com/wso2/identity-user-resolution-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux     *http.ServeMux
	metrics *metrics.Collector
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, collector *metrics.Collector) ServiceManagerInterface {

	return &ServiceManager{
		mux:     mux,
		metrics: collector,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	userService := services.NewUserService()
	healthService := services.NewHealthService()

	users := sm.metrics.Middleware("users", http.HandlerFunc(userService.Route))
	sm.mux.Handle(apiBasePath+"/users", users)
	sm.mux.Handle(apiBasePath+"/users/", users)

	healthService.Register(sm.mux)
	sm.mux.Handle("GET /metrics", sm.metrics.Handler())
	return nil
}
