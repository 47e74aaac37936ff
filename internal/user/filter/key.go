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
	"encoding/json"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// CanonicalKey renders criteria as a stable string so equal criteria share cache entries. Free text and exact match
// fields are normalized the same way Matches compares them.
func CanonicalKey(f model.FilterCriteria) string {
	f.SearchTerm = normalizedTerm(f.SearchTerm)
	f.ExcludeTerm = normalizedTerm(f.ExcludeTerm)
	f.Gender = strings.ToLower(strings.TrimSpace(f.Gender))
	f.City = strings.ToLower(strings.TrimSpace(f.City))
	if f.LastUsedFrom != nil {
		t := f.LastUsedFrom.UTC()
		f.LastUsedFrom = &t
	}
	if f.LastUsedTo != nil {
		t := f.LastUsedTo.UTC()
		f.LastUsedTo = &t
	}
	// FilterCriteria holds only plain values, so marshalling cannot fail.
	key, _ := json.Marshal(f)
	return string(key)
}
