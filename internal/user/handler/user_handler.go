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

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/pagination"
	"github.com/wso2/identity-user-resolution-service/internal/system/security"
	"github.com/wso2/identity-user-resolution-service/internal/system/utils"
	"github.com/wso2/identity-user-resolution-service/internal/user/filter"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/provider"
)

const maxMergeBodyBytes = 1 << 16

type UserHandler struct{}

func NewUserHandler() *UserHandler {

	return &UserHandler{}
}

// ListUsers handles GET /users with filter, paging and order query parameters.
func (uh *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationReadUsers); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	page, err := pagination.ParsePage(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	result, err := userService.ListUsers(r.Context(), criteria, model.PageRequest{
		Page:     page.Number,
		PageSize: page.Size,
		Order:    strings.TrimSpace(r.URL.Query().Get("order")),
	})
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// GetStatistics handles GET /users/statistics. The aggregates and the unique count share one filter.
func (uh *UserHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationReadUsers); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	summary, err := userService.GetStatisticsSummary(r.Context(), &criteria)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

// GetUniqueUserCount handles GET /users/unique-count.
func (uh *UserHandler) GetUniqueUserCount(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationReadUsers); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	criteria, err := filter.ParseQuery(r.URL.Query())
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	count, err := userService.GetUniqueUserCount(r.Context(), &criteria)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, model.UniqueCountResponse{UniqueUserCount: count})
}

// GetDuplicateGroup handles GET /users/groups/{groupKey}.
func (uh *UserHandler) GetDuplicateGroup(w http.ResponseWriter, r *http.Request) {

	if _, err := security.AuthnAndAuthz(r, constants.OperationReadUsers); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	groupKey, err := pathSegment(r, "/groups/", "")
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	group, err := userService.GetDuplicateGroup(r.Context(), groupKey)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, group)
}

// MergeGroup handles POST /users/groups/{groupKey}/merge. An empty body merges into the group's primary.
func (uh *UserHandler) MergeGroup(w http.ResponseWriter, r *http.Request) {

	initiator, err := security.AuthnAndAuthz(r, constants.OperationMergeUsers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	groupKey, err := pathSegment(r, "/groups/", "/merge")
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	var request model.MergeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMergeBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		errMsg := utils.HandleDecodeError(err, constants.MergeRequestResource)
		utils.HandleError(w, r, errors2.NewValidationError(errMsg))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.HandleError(w, r, err)
		return
	}

	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	result, err := userService.MergeGroup(r.Context(), groupKey, request.SurvivorId, initiator)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// DeleteUser handles DELETE /users/{userId}.
func (uh *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {

	initiator, err := security.AuthnAndAuthz(r, constants.OperationDeleteUsers)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	userId, err := pathSegment(r, constants.UsersApiPath+"/", "")
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	result, err := userService.DeleteUser(r.Context(), userId, initiator)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

// pathSegment extracts the escaped path element between prefix and suffix and unescapes it, so keys containing
// a slash survive when the client encodes it.
func pathSegment(r *http.Request, prefix, suffix string) (string, error) {

	path := strings.TrimSuffix(r.URL.EscapedPath(), "/")
	idx := strings.LastIndex(path, prefix)
	if idx < 0 {
		return "", errors2.NewValidationError("Invalid path.")
	}
	raw := strings.TrimSuffix(path[idx+len(prefix):], suffix)
	value, err := url.PathUnescape(raw)
	if err != nil || strings.TrimSpace(value) == "" {
		return "", errors2.NewValidationError("Invalid path parameter '" + raw + "'.")
	}
	return value, nil
}
