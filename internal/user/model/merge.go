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

// MergeRequest is the body of a group merge. SurvivorId is optional.
type MergeRequest struct {
	SurvivorId string `json:"survivor_id,omitempty" validate:"omitempty,max=128"`
}

// MergeResult reports the outcome of collapsing a duplicate group.
type MergeResult struct {
	GroupKey           DuplicateGroupKey `json:"group_key"`
	SurvivorId         string            `json:"survivor_id"`
	AbsorbedCount      int               `json:"absorbed_count"`
	AbsorbedIds        []string          `json:"absorbed_ids"`
	ReassignedChildren map[string]int    `json:"reassigned_children"`
}

// DeleteResult reports a user deletion with the number of child rows removed per table.
type DeleteResult struct {
	UserId          string         `json:"user_id"`
	DeletedChildren map[string]int `json:"deleted_children"`
}
