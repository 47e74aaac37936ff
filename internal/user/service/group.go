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

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/client"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/user/grouping"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeNotFound = "not_found"
	outcomeInvalid  = "invalid"
	outcomeFailure  = "failure"
)

// GetDuplicateGroup resolves a group key against all records, not a filtered subset, and lists its members with the
// primary first.
func (s *UserService) GetDuplicateGroup(ctx context.Context, groupKey string) (*model.DuplicateGroup, error) {

	groupKey = strings.TrimSpace(groupKey)
	if groupKey == "" {
		return nil, errors2.NewValidationError("Group key is required.")
	}

	var records []model.UserRecord
	err := s.breaker.Execute("list users", func() error {
		var err error
		records, err = s.store.ListUsers(ctx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	group := grouping.Members(records, s.signatures, groupKey)
	if group.Size == 0 {
		return nil, errors2.NewNotFoundError(fmt.Sprintf("Group '%s' does not resolve to any user.", groupKey))
	}
	return group, nil
}

// writeError gives every failed write a typed error. Client errors pass through. A store that could not be reached
// yields StoreUnavailableError and any other failure a CascadeFailure, both after the transaction rolled back.
func writeError(operation string, err error) error {

	var clientError *errors2.ClientError
	if errors.As(err, &clientError) {
		return err
	}
	if errors2.IsStoreUnavailable(err) || errors2.IsCascadeFailure(err) {
		return err
	}
	if client.IsConnectivityError(err) {
		return errors2.NewStoreUnavailableError(fmt.Sprintf("%s could not reach the record store and was rolled back.", operation), err)
	}
	return errors2.NewCascadeFailure(fmt.Sprintf("%s failed and was rolled back.", operation), err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors2.IsConflict(err):
		return outcomeConflict
	case errors2.IsNotFound(err):
		return outcomeNotFound
	case errors2.IsValidation(err):
		return outcomeInvalid
	default:
		return outcomeFailure
	}
}

func emptyTableCounts() map[string]int {
	counts := make(map[string]int, len(constants.ChildTables))
	for _, table := range constants.ChildTables {
		counts[table] = 0
	}
	return counts
}
