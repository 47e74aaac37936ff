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
	"strconv"
	"strings"
	"time"
)

const maxAge = 150

// Birth values have been stored in several layouts over time.
var birthLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
}

// ResolveAge returns the age in whole years at now. A plain integer is an age that was resolved when the record was
// written and is used as is. ok is false for a missing, unparseable, future or out of range value.
func ResolveAge(dob string, now time.Time) (int, bool) {

	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0, false
	}

	if age, err := strconv.Atoi(dob); err == nil {
		return age, age >= 0 && age <= maxAge
	}

	for _, layout := range birthLayouts {
		born, err := time.Parse(layout, dob)
		if err != nil {
			continue
		}
		return ageAt(born, now)
	}
	return 0, false
}

func ageAt(born, now time.Time) (int, bool) {
	now = now.UTC()
	born = born.UTC()
	if born.After(now) {
		return 0, false
	}
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age, age <= maxAge
}
