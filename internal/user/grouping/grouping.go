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

// Package grouping partitions user records into duplicate groups and picks each group's primary record.
package grouping

import (
	"sort"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/signature"
)

// Group assigns every record to exactly one duplicate group. It must be given the full filtered record set: group
// sizes and primaries computed over a single page would change as the caller pages through the results.
func Group(records []model.UserRecord, provider signature.Provider) map[string]model.GroupAssignment {

	assignments := make(map[string]model.GroupAssignment, len(records))
	for key, members := range partition(records, provider) {
		primary := SelectPrimary(members)
		for _, member := range members {
			assignments[member.UserId] = model.GroupAssignment{
				Key:         key,
				Size:        len(members),
				IsDuplicate: len(members) > 1,
				IsPrimary:   member.UserId == primary.UserId,
			}
		}
	}
	return assignments
}

// Groups returns every group of the record set, ordered by key, with members ranked primary first.
func Groups(records []model.UserRecord, provider signature.Provider) []model.DuplicateGroup {

	groups := make([]model.DuplicateGroup, 0)
	for key, members := range partition(records, provider) {
		groups = append(groups, newDuplicateGroup(key, members))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// Members resolves one key against the record set. The result is empty when the key matches nothing.
func Members(records []model.UserRecord, provider signature.Provider, key model.DuplicateGroupKey) *model.DuplicateGroup {

	if userId, ok := ParseUniqueKey(key); ok {
		for _, record := range records {
			if record.UserId == userId {
				group := newDuplicateGroup(key, []model.UserRecord{record})
				return &group
			}
		}
		return &model.DuplicateGroup{Key: key, Members: []model.UserRecord{}}
	}

	want := parseSignatureKey(key)
	members := make([]model.UserRecord, 0)
	for _, record := range records {
		if sig, ok := provider.Signature(record); ok && sig == want {
			members = append(members, record)
		}
	}
	group := newDuplicateGroup(key, members)
	return &group
}

// SelectPrimary returns the record that represents its group. Members must not be empty.
func SelectPrimary(members []model.UserRecord) model.UserRecord {
	primary := members[0]
	for _, candidate := range members[1:] {
		if RanksBefore(candidate, primary) {
			primary = candidate
		}
	}
	return primary
}

// RanksBefore orders records by how well they represent a person: not anonymous first, then with an email, then with
// a mobile number, then most recently used (never used ranks last), then lowest user id. The order is total so the
// primary of a group does not depend on the order records were read in.
func RanksBefore(a, b model.UserRecord) bool {
	if a.IsAnonymous != b.IsAnonymous {
		return !a.IsAnonymous
	}
	if hasA, hasB := present(a.Email), present(b.Email); hasA != hasB {
		return hasA
	}
	if hasA, hasB := present(a.MobileNumber), present(b.MobileNumber); hasA != hasB {
		return hasA
	}
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

// UniqueKey is the synthetic key of a record without duplicates.
func UniqueKey(userId string) model.DuplicateGroupKey {
	return constants.UniqueGroupKeyPrefix + userId
}

// ParseUniqueKey extracts the user id from a synthetic key.
func ParseUniqueKey(key model.DuplicateGroupKey) (string, bool) {
	if !strings.HasPrefix(key, constants.UniqueGroupKeyPrefix) {
		return "", false
	}
	userId := strings.TrimPrefix(key, constants.UniqueGroupKeyPrefix)
	return userId, userId != ""
}

// SignatureKey is the key of a group sharing sig. Signatures are opaque, so one that begins with a key prefix is
// escaped and can never be read back as a synthetic key.
func SignatureKey(sig string) model.DuplicateGroupKey {
	if strings.HasPrefix(sig, constants.UniqueGroupKeyPrefix) || strings.HasPrefix(sig, constants.EscapedGroupKeyPrefix) {
		return constants.EscapedGroupKeyPrefix + sig
	}
	return sig
}

func parseSignatureKey(key model.DuplicateGroupKey) string {
	if strings.HasPrefix(key, constants.EscapedGroupKeyPrefix) {
		return strings.TrimPrefix(key, constants.EscapedGroupKeyPrefix)
	}
	return key
}

func partition(records []model.UserRecord, provider signature.Provider) map[model.DuplicateGroupKey][]model.UserRecord {

	bySignature := make(map[string][]model.UserRecord)
	for _, record := range records {
		sig, ok := provider.Signature(record)
		if !ok {
			sig = ""
		}
		bySignature[sig] = append(bySignature[sig], record)
	}

	groups := make(map[model.DuplicateGroupKey][]model.UserRecord, len(bySignature))
	for sig, members := range bySignature {
		if sig == "" || len(members) == 1 {
			for _, member := range members {
				groups[UniqueKey(member.UserId)] = []model.UserRecord{member}
			}
			continue
		}
		groups[SignatureKey(sig)] = members
	}
	return groups
}

func newDuplicateGroup(key model.DuplicateGroupKey, members []model.UserRecord) model.DuplicateGroup {
	ranked := make([]model.UserRecord, len(members))
	copy(ranked, members)
	sort.SliceStable(ranked, func(i, j int) bool { return RanksBefore(ranked[i], ranked[j]) })

	group := model.DuplicateGroup{Key: key, Size: len(ranked), Members: ranked}
	if len(ranked) > 0 {
		group.PrimaryId = ranked[0].UserId
	}
	return group
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
