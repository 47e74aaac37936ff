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

package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// ParseQuery builds FilterCriteria from request query parameters and validates it. A date-only date_to covers the
// whole of that day.
func ParseQuery(values url.Values) (model.FilterCriteria, error) {

	f := model.FilterCriteria{
		SearchTerm:  strings.TrimSpace(values.Get("search")),
		ExcludeTerm: strings.TrimSpace(values.Get("exclude")),
		Gender:      strings.TrimSpace(values.Get("gender")),
		City:        strings.TrimSpace(values.Get("city")),
	}
	var problems []string

	if raw := strings.TrimSpace(values.Get("is_anonymous")); raw != "" {
		v, err := parseBool(raw)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			f.IsAnonymous = &v
		}
	}

	intParam := func(name string) *int {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be an integer", name))
			return nil
		}
		return &v
	}
	int64Param := func(name string) *int64 {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be an integer", name))
			return nil
		}
		return &v
	}
	dateParam := func(name string, endOfDay bool) *time.Time {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			return nil
		}
		v, err := parseDate(raw, endOfDay)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a date (YYYY-MM-DD) or RFC3339 timestamp", name))
			return nil
		}
		return &v
	}

	f.AgeFrom = intParam("age_from")
	f.AgeTo = intParam("age_to")
	f.MinPaidGeneration = int64Param("min_paid")
	f.MaxPaidGeneration = int64Param("max_paid")
	f.MinSummaryGeneration = int64Param("min_summary")
	f.MaxSummaryGeneration = int64Param("max_summary")
	f.LastUsedFrom = dateParam("date_from", false)
	f.LastUsedTo = dateParam("date_to", true)

	if len(problems) > 0 {
		return model.FilterCriteria{}, errors.NewValidationError(strings.Join(problems, "; "))
	}
	if err := Validate(f); err != nil {
		return model.FilterCriteria{}, err
	}
	return f, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes", "y":
		return true, nil
	case "false", "f", "0", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("is_anonymous must be true or false")
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
