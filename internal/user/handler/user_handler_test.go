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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/system/metrics"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/provider"
	"github.com/wso2/identity-user-resolution-service/internal/user/service"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

func TestMain(m *testing.M) {
	log.Init("ERROR")
	config.OverrideRuntime(config.Default())
	m.Run()
}

func setupService(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	for _, u := range []model.UserRecord{
		{UserId: "A", Email: "a@example.com", TotalPaidGeneration: 1, Signature: "sig/123"},
		{UserId: "B", IsAnonymous: true, TotalPaidGeneration: 2, Signature: "sig/123"},
		{UserId: "C", UserName: "Nimal", Gender: "Male"},
	} {
		require.NoError(t, s.InsertUser(ctx, u))
	}
	require.NoError(t, s.InsertChildRow(ctx, constants.SummaryGenerationsTable, "sg-1", "B"))

	provider.SetUserService(service.NewUserService(service.Options{Store: s, Metrics: metrics.NewCollector("test")}))
	t.Cleanup(func() { provider.SetUserService(nil) })
	return s
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorMessage {
	t.Helper()
	var msg errors.ErrorMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&msg))
	return msg
}

func TestListUsers(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users?page_size=2&order=group", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page model.PageResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 3, page.TotalRecords)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "sig/123", page.Users[0].Key)
	assert.True(t, page.Users[0].IsPrimary)
	assert.Equal(t, 2, page.Users[1].Size)
}

func TestListUsers_BadQuery(t *testing.T) {
	setupService(t)

	tests := []string{
		"/api/v1/users?page=0",
		"/api/v1/users?page_size=-1",
		"/api/v1/users?is_anonymous=maybe",
		"/api/v1/users?age_from=50&age_to=20",
		"/api/v1/users?order=random",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewUserHandler().ListUsers(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, errors.VALIDATION_FAILED.Code, decodeError(t, rec).Code)
		})
	}
}

func TestGetStatistics(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().GetStatistics(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/statistics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.StatisticsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 3, summary.Statistics.TotalUsers)
	assert.Equal(t, int64(3), summary.Statistics.TotalPaidGenerations)
	assert.Equal(t, 2, summary.UniqueUserCount)
}

func TestGetUniqueUserCount_Filtered(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().GetUniqueUserCount(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/unique-count?gender=male", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var count model.UniqueCountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&count))
	assert.Equal(t, 1, count.UniqueUserCount)
}

func TestGetDuplicateGroup_EscapedKey(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().GetDuplicateGroup(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/groups/sig%2F123", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var group model.DuplicateGroup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&group))
	assert.Equal(t, "A", group.PrimaryId)
	assert.Equal(t, 2, group.Size)

	rec = httptest.NewRecorder()
	NewUserHandler().GetDuplicateGroup(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/groups/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMergeGroup(t *testing.T) {
	s := setupService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/groups/sig%2F123/merge", strings.NewReader(`{"survivor_id":"B"}`))
	NewUserHandler().MergeGroup(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.MergeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "B", result.SurvivorId)
	assert.Equal(t, 1, result.AbsorbedCount)

	survivor, err := s.GetUser(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, int64(3), survivor.TotalPaidGeneration)
}

func TestMergeGroup_EmptyBodyUsesPrimary(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().MergeGroup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/groups/sig%2F123/merge", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.MergeResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "A", result.SurvivorId)
}

func TestMergeGroup_RejectsUnknownFields(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/groups/sig%2F123/merge", strings.NewReader(`{"winner":"B"}`))
	NewUserHandler().MergeGroup(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Description, "Unknown field")
}

func TestDeleteUser(t *testing.T) {
	s := setupService(t)

	rec := httptest.NewRecorder()
	NewUserHandler().DeleteUser(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/users/B", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.DeleteResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 1, result.DeletedChildren[constants.SummaryGenerationsTable])

	gone, err := s.GetUser(context.Background(), "B")
	require.NoError(t, err)
	assert.Nil(t, gone)

	rec = httptest.NewRecorder()
	NewUserHandler().DeleteUser(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/users/B", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.NOT_FOUND.Code, decodeError(t, rec).Code)
}
