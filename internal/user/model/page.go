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

// PageRequest selects a 1-based page of the ordered listing.
type PageRequest struct {
	Page     int    `json:"page" validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1"`
	Order    string `json:"order,omitempty" validate:"omitempty,oneof=last_used group"`
}

// PageResult is one page of the filtered listing. TotalRecords and TotalPages describe the whole filtered set.
type PageResult struct {
	Users        []AnnotatedUser `json:"users"`
	TotalRecords int             `json:"total_records"`
	TotalPages   int             `json:"total_pages"`
	CurrentPage  int             `json:"current_page"`
	PageSize     int             `json:"page_size"`
}
