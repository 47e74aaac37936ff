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

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Database drivers hand back column values in driver specific shapes: lib/pq returns TEXT as string and BIGINT as
// int64, go-sqlite3 may return TEXT as []byte. The helpers below coerce a scanned column into the Go type the model
// expects. A nil value coerces to the zero value with ok=false.

// ToString coerces a scanned column to a string.
func ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.UTC().Format(time.RFC3339), true
	default:
		return fmt.Sprint(v), true
	}
}

// ToInt64 coerces a scanned column to an integer. Numeric text is parsed; anything else is an error.
func ToInt64(value interface{}) (int64, bool, error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return v, true, nil
	case int32:
		return int64(v), true, nil
	case int:
		return int64(v), true, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, false, fmt.Errorf("value %v is not an integer", v)
		}
		return int64(v), true, nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	case time.Time:
		return v.Unix(), true, nil
	default:
		return 0, false, fmt.Errorf("cannot coerce %T to integer", value)
	}
}

// ToBool coerces a scanned column to a flag. Text flags are matched leniently because the anonymous flag has been
// written as TRUE, true, 1, t and yes over time. Empty text is false.
func ToBool(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case []byte:
		return ParseFlag(string(v))
	case string:
		return ParseFlag(v)
	default:
		return false
	}
}

// ParseFlag is the lenient text to flag parse used by ToBool and by query parameters.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		return true
	default:
		return false
	}
}

// ToUnixTime coerces a scanned unix seconds column to a time. A nil or zero value is no time.
func ToUnixTime(value interface{}) (*time.Time, error) {
	if t, ok := value.(time.Time); ok {
		return &t, nil
	}
	secs, ok, err := ToInt64(value)
	if err != nil || !ok || secs == 0 {
		return nil, err
	}
	t := time.Unix(secs, 0).UTC()
	return &t, nil
}

func parseInt(s string) (int64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("value %q is not an integer", s)
	}
	return n, true, nil
}
