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

package users

import (
	"context"
	"net/url"
	"reflect"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/user/filter"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/service"
)

const defaultPageSize = 10

// Tools exposes the user service as MCP tools. Outputs are the same documents the REST API returns.
type Tools struct {
	users service.UserServiceInterface
}

func NewTools(users service.UserServiceInterface) *Tools {
	return &Tools{users: users}
}

func (t *Tools) RegisterTools(server *mcp.Server) {
	destructive := true

	mcp.AddTool(server, &mcp.Tool{
		Name:        "user_resolution_list_users",
		Description: "List users matching a filter, one page at a time, annotated with their duplicate group.",
		InputSchema: listUsersInputSchema,
		Annotations: &mcp.ToolAnnotations{Title: "List Users", ReadOnlyHint: true},
	}, t.listUsers)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "user_resolution_statistics",
		Description: "Aggregate statistics and the unique user count for a filter.",
		InputSchema: statisticsInputSchema,
		Annotations: &mcp.ToolAnnotations{Title: "User Statistics", ReadOnlyHint: true},
	}, t.statistics)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "user_resolution_get_group",
		Description: "Members of a duplicate group, primary first.",
		InputSchema: getGroupInputSchema,
		Annotations: &mcp.ToolAnnotations{Title: "Get Duplicate Group", ReadOnlyHint: true},
	}, t.getGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "user_resolution_merge_group",
		Description: "Merge a duplicate group into one survivor. Child rows move to the survivor and counters are summed.",
		InputSchema: mergeGroupInputSchema,
		Annotations: &mcp.ToolAnnotations{Title: "Merge Duplicate Group", IdempotentHint: true, DestructiveHint: &destructive},
	}, t.mergeGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "user_resolution_delete_user",
		Description: "Delete a user and every question answer, summary generation and transaction it owns.",
		InputSchema: deleteUserInputSchema,
		Annotations: &mcp.ToolAnnotations{Title: "Delete User", DestructiveHint: &destructive},
	}, t.deleteUser)
}

func (t *Tools) listUsers(ctx context.Context, _ *mcp.CallToolRequest, input ListUsersInput) (*mcp.CallToolResult, any, error) {

	criteria, err := filter.ParseQuery(input.FilterInput.values())
	if err != nil {
		return nil, nil, err
	}
	page := model.PageRequest{Page: input.Page, PageSize: input.PageSize, Order: input.Order}
	if page.Page == 0 {
		page.Page = 1
	}
	if page.PageSize == 0 {
		page.PageSize = defaultPageSize
	}

	result, err := t.users.ListUsers(ctx, criteria, page)
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}

func (t *Tools) statistics(ctx context.Context, _ *mcp.CallToolRequest, input StatisticsInput) (*mcp.CallToolResult, any, error) {

	criteria, err := filter.ParseQuery(input.FilterInput.values())
	if err != nil {
		return nil, nil, err
	}
	summary, err := t.users.GetStatisticsSummary(ctx, &criteria)
	if err != nil {
		return nil, nil, err
	}
	return nil, summary, nil
}

func (t *Tools) getGroup(ctx context.Context, _ *mcp.CallToolRequest, input GetGroupInput) (*mcp.CallToolResult, any, error) {

	group, err := t.users.GetDuplicateGroup(ctx, input.GroupKey)
	if err != nil {
		return nil, nil, err
	}
	return nil, group, nil
}

func (t *Tools) mergeGroup(ctx context.Context, _ *mcp.CallToolRequest, input MergeGroupInput) (*mcp.CallToolResult, any, error) {

	if strings.TrimSpace(input.GroupKey) == "" {
		return nil, nil, errors.NewValidationError("group_key is required.")
	}
	result, err := t.users.MergeGroup(ctx, input.GroupKey, input.SurvivorId, constants.MCPInitiator)
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}

func (t *Tools) deleteUser(ctx context.Context, _ *mcp.CallToolRequest, input DeleteUserInput) (*mcp.CallToolResult, any, error) {

	result, err := t.users.DeleteUser(ctx, input.UserId, constants.MCPInitiator)
	if err != nil {
		return nil, nil, err
	}
	return nil, result, nil
}

// values renders the input as the query parameters the REST listing takes, keyed by json tag.
func (f FilterInput) values() url.Values {
	values := url.Values{}
	v := reflect.ValueOf(f)
	for i := 0; i < v.NumField(); i++ {
		name, _, _ := strings.Cut(v.Type().Field(i).Tag.Get("json"), ",")
		if raw := v.Field(i).String(); raw != "" {
			values.Set(name, raw)
		}
	}
	return values
}
