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

// FilterInput mirrors the filter query parameters of the REST listing. Values use the same formats.
type FilterInput struct {
	Search      string `json:"search,omitempty"`
	Exclude     string `json:"exclude,omitempty"`
	IsAnonymous string `json:"is_anonymous,omitempty"`
	Gender      string `json:"gender,omitempty"`
	City        string `json:"city,omitempty"`
	AgeFrom     string `json:"age_from,omitempty"`
	AgeTo       string `json:"age_to,omitempty"`
	DateFrom    string `json:"date_from,omitempty"`
	DateTo      string `json:"date_to,omitempty"`
	MinPaid     string `json:"min_paid,omitempty"`
	MaxPaid     string `json:"max_paid,omitempty"`
	MinSummary  string `json:"min_summary,omitempty"`
	MaxSummary  string `json:"max_summary,omitempty"`
}

// user_resolution_list_users
type ListUsersInput struct {
	FilterInput
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Order    string `json:"order,omitempty"`
}

// user_resolution_statistics
type StatisticsInput struct {
	FilterInput
}

// user_resolution_get_group
type GetGroupInput struct {
	GroupKey string `json:"group_key"`
}

// user_resolution_merge_group
type MergeGroupInput struct {
	GroupKey   string `json:"group_key"`
	SurvivorId string `json:"survivor_id,omitempty"`
}

// user_resolution_delete_user
type DeleteUserInput struct {
	UserId string `json:"user_id"`
}
