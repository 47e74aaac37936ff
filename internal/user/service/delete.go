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
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

// DeleteUser removes a user together with every QuestionAnswer, SummaryGeneration and Transaction row it owns, in
// one transaction. The caller is expected to have confirmed the deletion.
func (s *UserService) DeleteUser(ctx context.Context, userId, initiator string) (*model.DeleteResult, error) {

	traceID := syscontext.GetTraceID(ctx)
	logger := log.GetLogger().WithTraceID(traceID)

	userId = strings.TrimSpace(userId)
	if userId == "" {
		s.metrics.Deletes.WithLabelValues(outcomeInvalid).Inc()
		return nil, errors.NewValidationError("User id is required.")
	}

	lockKey := constants.UserLockPrefix + userId
	release, err := lock.AcquireAll(ctx, s.locker, lockKey)
	if err != nil {
		s.metrics.Deletes.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	defer release()

	writeCtx := context.WithoutCancel(ctx)
	result := &model.DeleteResult{UserId: userId, DeletedChildren: emptyTableCounts()}

	err = s.breaker.Execute("delete user", func() error {
		return s.store.RunInTx(writeCtx, func(tx store.UserTx) error {
			if err := tryLock(writeCtx, tx, lockKey); err != nil {
				return err
			}
			user, err := tx.GetUser(writeCtx, userId)
			if err != nil {
				return pkgerrors.Wrapf(err, "read user %s", userId)
			}
			if user == nil {
				return errors.NewNotFoundError(fmt.Sprintf("User %s does not exist.", userId))
			}

			rows, err := tx.CollectChildRows(writeCtx, []string{userId})
			if err != nil {
				return pkgerrors.Wrapf(err, "collect child rows of %s", userId)
			}
			deleted, err := tx.DeleteChildRows(writeCtx, rows)
			if err != nil {
				return pkgerrors.Wrapf(err, "delete child rows of %s", userId)
			}
			if err := tx.DeleteUser(writeCtx, userId); err != nil {
				return pkgerrors.Wrapf(err, "delete user %s", userId)
			}
			for table, n := range deleted {
				result.DeletedChildren[table] = n
			}
			return nil
		})
	})
	if err != nil {
		err = writeError(fmt.Sprintf("Deletion of user '%s'", userId), err)
		s.metrics.Deletes.WithLabelValues(outcomeOf(err)).Inc()
		if errors.IsCascadeFailure(err) || errors.IsStoreUnavailable(err) {
			logger.Error("Deletion rolled back", log.String("user_id", userId), log.Error(err))
			logger.Audit(log.AuditEvent{
				InitiatorID:   initiator,
				InitiatorType: log.InitiatorTypeAdmin,
				TargetID:      userId,
				TargetType:    log.TargetTypeUser,
				ActionID:      log.ActionDeleteUser,
				Outcome:       log.OutcomeFailure,
				TraceID:       traceID,
			})
		}
		return nil, err
	}

	s.statsCache.Clear()
	s.metrics.Deletes.WithLabelValues(outcomeSuccess).Inc()
	for table, n := range result.DeletedChildren {
		s.metrics.ChildrenPurged.WithLabelValues(table).Add(float64(n))
	}
	logger.Info("Deleted user", log.String("user_id", userId))
	logger.Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: log.InitiatorTypeAdmin,
		TargetID:      userId,
		TargetType:    log.TargetTypeUser,
		ActionID:      log.ActionDeleteUser,
		Outcome:       log.OutcomeSuccess,
		TraceID:       traceID,
		Data:          result,
	})
	return result, nil
}
