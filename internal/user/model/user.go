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

import "time"

// DuplicateGroupKey identifies a FingerprintGroup within one evaluation: the shared signature for groups of two or
// more records, or unique:<user_id> for a record without duplicates.
type DuplicateGroupKey = string

// UserRecord is one stored user. Records are created outside this service and only merge and delete mutate them.
type UserRecord struct {
	UserId                 string     `json:"user_id"`
	UserName               string     `json:"user_name,omitempty"`
	Email                  string     `json:"email,omitempty"`
	MobileNumber           string     `json:"mobile_number,omitempty"`
	City                   string     `json:"city,omitempty"`
	Gender                 string     `json:"gender,omitempty"`
	DateOfBirth            string     `json:"dob,omitempty"`
	IsAnonymous            bool       `json:"is_anonymous"`
	LastUsed               *time.Time `json:"last_used,omitempty"`
	TotalSummaryGeneration int64      `json:"total_summary_generation"`
	TotalPaidGeneration    int64      `json:"total_paid_generation"`
	Signature              string     `json:"-"`
}

// GroupAssignment is the duplicate group a record belongs to in one evaluation.
type GroupAssignment struct {
	Key         DuplicateGroupKey `json:"group_key"`
	Size        int               `json:"duplicate_count"`
	IsDuplicate bool              `json:"is_duplicate_group"`
	IsPrimary   bool              `json:"is_primary"`
}

// AnnotatedUser is a record as returned by the listing, with its group membership.
type AnnotatedUser struct {
	UserRecord
	GroupAssignment
}

// DuplicateGroup lists the members of a FingerprintGroup, primary first.
type DuplicateGroup struct {
	Key       DuplicateGroupKey `json:"group_key"`
	Size      int               `json:"size"`
	PrimaryId string            `json:"primary_id"`
	Members   []UserRecord      `json:"members"`
}

// ChildRow identifies one QuestionAnswer, SummaryGeneration or Transaction row by table and id.
type ChildRow struct {
	Table  string
	Id     string
	UserId string
}
