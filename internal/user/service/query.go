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
	"sort"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/pagination"
	"github.com/wso2/identity-user-resolution-service/internal/system/utils"
	"github.com/wso2/identity-user-resolution-service/internal/user/filter"
	"github.com/wso2/identity-user-resolution-service/internal/user/grouping"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// ListUsers returns one page of the records matching criteria. Grouping runs over the whole filtered set before the
// page is cut, so the group annotations of a record do not depend on which page it lands on.
func (s *UserService) ListUsers(ctx context.Context, criteria model.FilterCriteria, page model.PageRequest) (*model.PageResult, error) {

	if err := filter.Validate(criteria); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(page); err != nil {
		return nil, err
	}

	records, err := s.loadMatching(ctx, criteria, s.now())
	if err != nil {
		return nil, err
	}
	assignments := grouping.Group(records, s.signatures)
	ordered := orderUsers(records, assignments, page.Order)

	total := len(ordered)
	start, end := pagination.Bounds(total, pagination.Page{Number: page.Page, Size: page.PageSize})
	users := make([]model.AnnotatedUser, 0, end-start)
	for _, record := range ordered[start:end] {
		users = append(users, model.AnnotatedUser{UserRecord: record, GroupAssignment: assignments[record.UserId]})
	}

	return &model.PageResult{
		Users:        users,
		TotalRecords: total,
		TotalPages:   pagination.TotalPages(total, page.PageSize),
		CurrentPage:  page.Page,
		PageSize:     page.PageSize,
	}, nil
}

// orderUsers sorts by last use, most recent first with never used records last, then by user id. The group order
// keeps that sequence but emits each duplicate group as one block at its primary's position, primary first.
func orderUsers(records []model.UserRecord, assignments map[string]model.GroupAssignment, order string) []model.UserRecord {

	ordered := make([]model.UserRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return lastUsedFirst(ordered[i], ordered[j]) })

	if order != constants.OrderByGroup {
		return ordered
	}

	members := make(map[string][]model.UserRecord)
	for _, record := range ordered {
		key := assignments[record.UserId].Key
		members[key] = append(members[key], record)
	}
	clustered := make([]model.UserRecord, 0, len(ordered))
	for _, record := range ordered {
		assignment := assignments[record.UserId]
		if !assignment.IsPrimary {
			continue
		}
		clustered = append(clustered, record)
		for _, member := range members[assignment.Key] {
			if member.UserId != record.UserId {
				clustered = append(clustered, member)
			}
		}
	}
	return clustered
}

func lastUsedFirst(a, b model.UserRecord) bool {
	switch {
	case a.LastUsed != nil && b.LastUsed == nil:
		return true
	case a.LastUsed == nil && b.LastUsed != nil:
		return false
	case a.LastUsed != nil && b.LastUsed != nil && !a.LastUsed.Equal(*b.LastUsed):
		return a.LastUsed.After(*b.LastUsed)
	}
	return a.UserId < b.UserId
}
