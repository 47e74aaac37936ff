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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/health_check/handler"
	"github.com/wso2/identity-user-resolution-service/internal/health_check/provider"
)

const (
	livenessPath  = "/health"
	readinessPath = "/ready"
)

// HealthService routes the liveness and readiness probes. Probes accept GET and HEAD and are never cached.
type HealthService struct {
	handler *handler.HealthHandler
}

func NewHealthService() *HealthService {
	return &HealthService{
		handler: handler.NewHealthHandler(provider.NewHealthCheckProvider()),
	}
}

// Register mounts both probes on mux.
func (s *HealthService) Register(mux *http.ServeMux) {
	mux.HandleFunc(livenessPath, s.Route)
	mux.HandleFunc(readinessPath, s.Route)
}

func (s *HealthService) Route(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Cache-Control", "no-store")

	switch strings.TrimSuffix(r.URL.Path, "/") {
	case livenessPath:
		s.handler.HandleHealth(w, r)
	case readinessPath:
		s.handler.HandleReadiness(w, r)
	default:
		http.NotFound(w, r)
	}
}
