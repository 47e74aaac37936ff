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

// FilterCriteria holds the optional predicates of a user query. A nil pointer or empty string imposes no
// constraint; present predicates combine with AND. The value is built once per request and passed unchanged to the
// listing, the statistics and the unique count.
type FilterCriteria struct {
	SearchTerm           string     `json:"search,omitempty" validate:"max=256"`
	ExcludeTerm          string     `json:"exclude,omitempty" validate:"max=256"`
	IsAnonymous          *bool      `json:"is_anonymous,omitempty"`
	Gender               string     `json:"gender,omitempty" validate:"max=64"`
	City                 string     `json:"city,omitempty" validate:"max=128"`
	AgeFrom              *int       `json:"age_from,omitempty" validate:"omitempty,min=0,max=150"`
	AgeTo                *int       `json:"age_to,omitempty" validate:"omitempty,min=0,max=150"`
	LastUsedFrom         *time.Time `json:"date_from,omitempty"`
	LastUsedTo           *time.Time `json:"date_to,omitempty"`
	MinPaidGeneration    *int64     `json:"min_paid,omitempty" validate:"omitempty,min=0"`
	MaxPaidGeneration    *int64     `json:"max_paid,omitempty" validate:"omitempty,min=0"`
	MinSummaryGeneration *int64     `json:"min_summary,omitempty" validate:"omitempty,min=0"`
	MaxSummaryGeneration *int64     `json:"max_summary,omitempty" validate:"omitempty,min=0"`
}

// HasAgeBound reports whether the criteria restrict age.
func (f FilterCriteria) HasAgeBound() bool {
	return f.AgeFrom != nil || f.AgeTo != nil
}
