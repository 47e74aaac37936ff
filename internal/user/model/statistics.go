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

package model

// AggregateStatistics are counts over every record matching a filter, never a single page.
type AggregateStatistics struct {
	TotalUsers              int   `json:"total_users"`
	AnonymousUsers          int   `json:"anonymous_users"`
	ActiveUsers             int   `json:"active_users"`
	TotalPaidGenerations    int64 `json:"total_paid_generations"`
	TotalSummaryGenerations int64 `json:"total_summary_generations"`
}

// StatisticsResponse pairs the statistics with the unique user count of the same filter.
type StatisticsResponse struct {
	Statistics      AggregateStatistics `json:"statistics"`
	UniqueUserCount int                 `json:"unique_user_count"`
}

type UniqueCountResponse struct {
	UniqueUserCount int `json:"unique_user_count"`
}
