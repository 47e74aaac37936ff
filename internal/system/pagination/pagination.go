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

package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
)

const (
	defaultPageSize = 10
	maxPageSize     = 200
)

// Page is a 1-based page number and page size.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and page_size from the query string. A missing page is 1 and a missing page_size is the
// configured default. Sizes above the configured maximum are clamped. Non numeric values, pages below 1 and sizes
// below 1 are rejected with a ValidationError.
func ParsePage(r *http.Request) (Page, error) {

	defSize, maxSize := limits()
	page := Page{Number: 1, Size: defSize}

	if raw := r.URL.Query().Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return Page{}, errors.NewValidationError(fmt.Sprintf("Invalid page '%s'. Page must be an integer of at least 1.", raw))
		}
		page.Number = v
	}

	if raw := r.URL.Query().Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return Page{}, errors.NewValidationError(fmt.Sprintf("Invalid page_size '%s'. Page size must be a positive integer.", raw))
		}
		if v > maxSize {
			v = maxSize
		}
		page.Size = v
	}
	return page, nil
}

// TotalPages is ceil(total/size), and 0 when there are no records.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// Bounds returns the half open slice range of the page within total records. Pages past the end yield an empty range.
func Bounds(total int, page Page) (int, int) {
	if page.Number < 1 || page.Size < 1 || page.Number-1 >= TotalPages(total, page.Size) {
		return total, total
	}
	start := (page.Number - 1) * page.Size
	end := start + page.Size
	if end > total {
		end = total
	}
	return start, end
}

func limits() (int, int) {
	defSize, maxSize := defaultPageSize, maxPageSize
	if config.IsRuntimeInitialized() {
		p := config.GetRuntime().Config.Pagination
		if p.DefaultPageSize > 0 {
			defSize = p.DefaultPageSize
		}
		if p.MaxPageSize > 0 {
			maxSize = p.MaxPageSize
		}
	}
	if defSize > maxSize {
		defSize = maxSize
	}
	return defSize, maxSize
}
