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
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	syscontext "github.com/wso2/identity-user-resolution-service/internal/system/context"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/lock"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/user/grouping"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

// MergeGroup collapses the duplicate group identified by groupKey into a single survivor. The survivor is survivorId
// when it belongs to the group and the group's primary otherwise. Every other member's child rows move to the
// survivor, the member is deleted and its counters are added to the survivor, all in one transaction. Merging a group
// that has already collapsed to one record succeeds with nothing absorbed.
func (s *UserService) MergeGroup(ctx context.Context, groupKey, survivorId, initiator string) (*model.MergeResult, error) {

	traceID := syscontext.GetTraceID(ctx)
	logger := log.GetLogger().WithTraceID(traceID)

	groupKey = strings.TrimSpace(groupKey)
	survivorId = strings.TrimSpace(survivorId)
	if groupKey == "" {
		s.metrics.Merges.WithLabelValues(outcomeInvalid).Inc()
		return nil, errors.NewValidationError("Group key is required.")
	}

	releaseGroup, err := lock.AcquireAll(ctx, s.locker, constants.GroupLockPrefix+groupKey)
	if err != nil {
		s.metrics.Merges.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	defer releaseGroup()

	// The cascade is not abandoned when the caller goes away: it commits or rolls back.
	writeCtx := context.WithoutCancel(ctx)

	var result *model.MergeResult
	var releaseMembers func()
	defer func() {
		if releaseMembers != nil {
			releaseMembers()
		}
	}()

	err = s.breaker.Execute("merge group", func() error {
		return s.store.RunInTx(writeCtx, func(tx store.UserTx) error {
			var err error
			result, releaseMembers, err = s.mergeInTx(writeCtx, tx, groupKey, survivorId)
			return err
		})
	})
	if err != nil {
		err = writeError(fmt.Sprintf("Merge of group '%s'", groupKey), err)
		s.metrics.Merges.WithLabelValues(outcomeOf(err)).Inc()
		if errors.IsCascadeFailure(err) || errors.IsStoreUnavailable(err) {
			logger.Error("Merge rolled back", log.String("group_key", groupKey), log.Error(err))
			logger.Audit(log.AuditEvent{
				InitiatorID:   initiator,
				InitiatorType: log.InitiatorTypeAdmin,
				TargetID:      groupKey,
				TargetType:    log.TargetTypeDuplicateGroup,
				ActionID:      log.ActionMergeUserGroup,
				Outcome:       log.OutcomeFailure,
				TraceID:       traceID,
			})
		}
		return nil, err
	}

	s.metrics.Merges.WithLabelValues(outcomeSuccess).Inc()
	if result.AbsorbedCount == 0 {
		logger.Debug("Group has a single member, nothing to merge", log.String("group_key", groupKey))
		return result, nil
	}

	s.statsCache.Clear()
	s.metrics.UsersAbsorbed.Add(float64(result.AbsorbedCount))
	for table, n := range result.ReassignedChildren {
		s.metrics.ChildrenMoved.WithLabelValues(table).Add(float64(n))
	}
	logger.Info("Merged duplicate group",
		log.String("group_key", groupKey),
		log.String("survivor_id", result.SurvivorId),
		log.Strings("absorbed_ids", result.AbsorbedIds))
	logger.Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      groupKey,
		TargetType:    log.TargetTypeDuplicateGroup,
		ActionID:      log.ActionMergeUserGroup,
		Outcome:       log.OutcomeSuccess,
		TraceID:       traceID,
		Data:          result,
	})
	return result, nil
}

// mergeInTx resolves the group inside the transaction, locks its members and applies the cascade. All child rows of
// the absorbed members are collected before anything is changed. The returned release function frees the member
// locks and must run after the transaction ends.
func (s *UserService) mergeInTx(ctx context.Context, tx store.UserTx, groupKey, survivorId string) (*model.MergeResult, func(), error) {

	if err := tryLock(ctx, tx, constants.GroupLockPrefix+groupKey); err != nil {
		return nil, nil, err
	}

	records, err := tx.ListUsers(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "resolve group members")
	}
	group := grouping.Members(records, s.signatures, groupKey)
	if group.Size == 0 {
		return nil, nil, errors.NewNotFoundError(fmt.Sprintf("Group '%s' does not resolve to any user.", groupKey))
	}

	memberKeys := make([]string, 0, group.Size)
	for _, member := range group.Members {
		memberKeys = append(memberKeys, constants.UserLockPrefix+member.UserId)
	}
	release, err := lock.AcquireAll(ctx, s.locker, memberKeys...)
	if err != nil {
		return nil, nil, err
	}
	if err := tryLock(ctx, tx, memberKeys...); err != nil {
		return nil, release, err
	}

	survivor := group.PrimaryId
	if survivorId != "" {
		if containsMember(group, survivorId) {
			survivor = survivorId
		} else {
			log.GetLogger().Debug(fmt.Sprintf("Requested survivor '%s' is not in group '%s', keeping primary '%s'",
				survivorId, groupKey, survivor))
		}
	}

	result := &model.MergeResult{
		GroupKey:           groupKey,
		SurvivorId:         survivor,
		AbsorbedIds:        []string{},
		ReassignedChildren: emptyTableCounts(),
	}
	if group.Size == 1 {
		return result, release, nil
	}

	var summary, paid int64
	for _, member := range group.Members {
		if member.UserId == survivor {
			continue
		}
		result.AbsorbedIds = append(result.AbsorbedIds, member.UserId)
		summary += member.TotalSummaryGeneration
		paid += member.TotalPaidGeneration
	}

	rows, err := tx.CollectChildRows(ctx, result.AbsorbedIds)
	if err != nil {
		return nil, release, pkgerrors.Wrap(err, "collect child rows of absorbed users")
	}
	moved, err := tx.ReassignChildRows(ctx, rows, survivor)
	if err != nil {
		return nil, release, pkgerrors.Wrapf(err, "reassign child rows to %s", survivor)
	}
	for _, userId := range result.AbsorbedIds {
		if err := tx.DeleteUser(ctx, userId); err != nil {
			return nil, release, pkgerrors.Wrapf(err, "delete absorbed user %s", userId)
		}
	}
	if err := tx.AddCounters(ctx, survivor, summary, paid); err != nil {
		return nil, release, pkgerrors.Wrapf(err, "add counters to %s", survivor)
	}

	for table, n := range moved {
		result.ReassignedChildren[table] = n
	}
	result.AbsorbedCount = len(result.AbsorbedIds)
	return result, release, nil
}

func tryLock(ctx context.Context, tx store.UserTx, keys ...string) error {
	ok, err := tx.TryLock(ctx, keys...)
	if err != nil {
		return pkgerrors.Wrap(err, "take transaction locks")
	}
	if !ok {
		return errors.NewConflictError(fmt.Sprintf("Another write is in progress for '%s'. Retry after it completes.",
			strings.Join(keys, ", ")))
	}
	return nil
}

func containsMember(group *model.DuplicateGroup, userId string) bool {
	for _, member := range group.Members {
		if member.UserId == userId {
			return true
		}
	}
	return false
}
