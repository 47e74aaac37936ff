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

// Package filter evaluates FilterCriteria against user records. The listing, the statistics and the unique count
// all filter through Matches so the three views always agree.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/utils"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// Matches reports whether the record satisfies every present predicate. now is the evaluation instant used to
// resolve ages.
func Matches(record model.UserRecord, f model.FilterCriteria, now time.Time) bool {

	if term := normalizedTerm(f.SearchTerm); term != "" && !containsTerm(record, term) {
		return false
	}
	if term := normalizedTerm(f.ExcludeTerm); term != "" && containsTerm(record, term) {
		return false
	}
	if f.IsAnonymous != nil && record.IsAnonymous != *f.IsAnonymous {
		return false
	}
	if !equalFold(f.Gender, record.Gender) || !equalFold(f.City, record.City) {
		return false
	}

	if f.HasAgeBound() {
		// Records whose age cannot be resolved only drop out when an age bound was asked for.
		age, ok := ResolveAge(record.DateOfBirth, now)
		if !ok {
			return false
		}
		if (f.AgeFrom != nil && age < *f.AgeFrom) || (f.AgeTo != nil && age > *f.AgeTo) {
			return false
		}
	}

	if f.LastUsedFrom != nil || f.LastUsedTo != nil {
		if record.LastUsed == nil {
			return false
		}
		if f.LastUsedFrom != nil && record.LastUsed.Before(*f.LastUsedFrom) {
			return false
		}
		if f.LastUsedTo != nil && record.LastUsed.After(*f.LastUsedTo) {
			return false
		}
	}

	return inRange(record.TotalPaidGeneration, f.MinPaidGeneration, f.MaxPaidGeneration) &&
		inRange(record.TotalSummaryGeneration, f.MinSummaryGeneration, f.MaxSummaryGeneration)
}

// Apply returns the records that match f, preserving order.
func Apply(records []model.UserRecord, f model.FilterCriteria, now time.Time) []model.UserRecord {
	matched := make([]model.UserRecord, 0, len(records))
	for _, record := range records {
		if Matches(record, f, now) {
			matched = append(matched, record)
		}
	}
	return matched
}

// Validate checks field bounds and that every range has its lower bound at or below its upper bound.
func Validate(f model.FilterCriteria) error {

	if err := utils.ValidateStruct(f); err != nil {
		return err
	}

	var problems []string
	if f.AgeFrom != nil && f.AgeTo != nil && *f.AgeFrom > *f.AgeTo {
		problems = append(problems, fmt.Sprintf("age_from %d is greater than age_to %d", *f.AgeFrom, *f.AgeTo))
	}
	if f.LastUsedFrom != nil && f.LastUsedTo != nil && f.LastUsedFrom.After(*f.LastUsedTo) {
		problems = append(problems, "date_from is after date_to")
	}
	if f.MinPaidGeneration != nil && f.MaxPaidGeneration != nil && *f.MinPaidGeneration > *f.MaxPaidGeneration {
		problems = append(problems, "min_paid is greater than max_paid")
	}
	if f.MinSummaryGeneration != nil && f.MaxSummaryGeneration != nil && *f.MinSummaryGeneration > *f.MaxSummaryGeneration {
		problems = append(problems, "min_summary is greater than max_summary")
	}
	if len(problems) > 0 {
		return errors.NewValidationError(strings.Join(problems, "; "))
	}
	return nil
}

func containsTerm(record model.UserRecord, term string) bool {
	for _, field := range []string{record.UserName, record.Email, record.MobileNumber, record.UserId} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func normalizedTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// equalFold treats a blank criterion as no constraint.
func equalFold(criterion, value string) bool {
	criterion = strings.TrimSpace(criterion)
	return criterion == "" || strings.EqualFold(criterion, strings.TrimSpace(value))
}

func inRange(v int64, min, max *int64) bool {
	return (min == nil || v >= *min) && (max == nil || v <= *max)
}
