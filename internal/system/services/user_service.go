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

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/user/handler"
)

type UserService struct {
	userHandler *handler.UserHandler
}

func NewUserService() *UserService {
	return &UserService{
		userHandler: handler.NewUserHandler(),
	}
}

// Route handles all user resolution endpoints under the API base path.
func (s *UserService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimPrefix(r.URL.Path, constants.ApiBasePath)
	path = strings.TrimSuffix(path, "/")
	method := r.Method
	users := constants.UsersApiPath

	switch {
	case method == http.MethodGet && path == users:
		s.userHandler.ListUsers(w, r)

	case method == http.MethodGet && path == users+"/statistics":
		s.userHandler.GetStatistics(w, r)

	case method == http.MethodGet && path == users+"/unique-count":
		s.userHandler.GetUniqueUserCount(w, r)

	case method == http.MethodPost && strings.HasPrefix(path, users+"/groups/") && strings.HasSuffix(path, "/merge"):
		s.userHandler.MergeGroup(w, r)

	case method == http.MethodGet && strings.HasPrefix(path, users+"/groups/"):
		s.userHandler.GetDuplicateGroup(w, r)

	case method == http.MethodDelete && strings.HasPrefix(path, users+"/"):
		s.userHandler.DeleteUser(w, r)

	default:
		http.NotFound(w, r)
	}
}
