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
	stderrors "errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

func TestMergeGroup_AbsorbsDuplicates(t *testing.T) {
	storeVariants(t, func(t *testing.T, s seededStore) {
		seedAB(t, s)
		svc := newTestService(s)
		ctx := context.Background()

		result, err := svc.MergeGroup(ctx, "sig-123", "", "admin")
		require.NoError(t, err)
		assert.Equal(t, "A", result.SurvivorId)
		assert.Equal(t, 1, result.AbsorbedCount)
		assert.Equal(t, []string{"B"}, result.AbsorbedIds)
		assert.Equal(t, map[string]int{
			constants.QuestionAnswersTable:    1,
			constants.SummaryGenerationsTable: 4,
			constants.TransactionsTable:       0,
		}, result.ReassignedChildren)

		survivor, err := s.GetUser(ctx, "A")
		require.NoError(t, err)
		require.NotNil(t, survivor)
		assert.Equal(t, int64(3), survivor.TotalPaidGeneration)
		assert.Equal(t, int64(7), survivor.TotalSummaryGeneration)

		absorbed, err := s.GetUser(ctx, "B")
		require.NoError(t, err)
		assert.Nil(t, absorbed)

		counts, err := s.CountChildRows(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, 4, counts[constants.SummaryGenerationsTable])
		assert.Equal(t, 1, counts[constants.QuestionAnswersTable])
		assert.Equal(t, 2, counts[constants.TransactionsTable])

		// The untouched pair member stays as it was.
		other, err := s.GetUser(ctx, "C")
		require.NoError(t, err)
		assert.NotNil(t, other)
	})
}

func TestMergeGroup_IsIdempotent(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)
	ctx := context.Background()

	_, err := svc.MergeGroup(ctx, "sig-123", "", "admin")
	require.NoError(t, err)

	again, err := svc.MergeGroup(ctx, "sig-123", "", "admin")
	require.NoError(t, err)
	assert.Equal(t, "A", again.SurvivorId)
	assert.Equal(t, 0, again.AbsorbedCount)
	assert.Empty(t, again.AbsorbedIds)

	survivor, err := s.GetUser(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(3), survivor.TotalPaidGeneration)

	stats, err := svc.GetStatistics(ctx, nil)
	require.NoError(t, err)
	unique, err := svc.GetUniqueUserCount(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, stats.TotalUsers, unique)
}

func TestMergeGroup_ExplicitSurvivor(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	result, err := svc.MergeGroup(context.Background(), "sig-123", "B", "admin")
	require.NoError(t, err)
	assert.Equal(t, "B", result.SurvivorId)
	assert.Equal(t, []string{"A"}, result.AbsorbedIds)
	assert.Equal(t, 2, result.ReassignedChildren[constants.TransactionsTable])

	survivor, err := s.GetUser(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, int64(3), survivor.TotalPaidGeneration)
}

func TestMergeGroup_SurvivorOutsideGroupFallsBackToPrimary(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	result, err := svc.MergeGroup(context.Background(), "sig-123", "C", "admin")
	require.NoError(t, err)
	assert.Equal(t, "A", result.SurvivorId)

	untouched, err := s.GetUser(context.Background(), "C")
	require.NoError(t, err)
	assert.NotNil(t, untouched)
}

func TestMergeGroup_UniqueKeyIsNoop(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	result, err := svc.MergeGroup(context.Background(), "unique:C", "", "admin")
	require.NoError(t, err)
	assert.Equal(t, "C", result.SurvivorId)
	assert.Equal(t, 0, result.AbsorbedCount)
}

func TestMergeGroup_Errors(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	_, err := svc.MergeGroup(context.Background(), "  ", "", "admin")
	assert.True(t, errors.IsValidation(err))

	_, err = svc.MergeGroup(context.Background(), "sig-unknown", "", "admin")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.MergeGroup(context.Background(), "unique:ghost", "", "admin")
	assert.True(t, errors.IsNotFound(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Merges.WithLabelValues(outcomeInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(svc.metrics.Merges.WithLabelValues(outcomeNotFound)))
}

func TestMergeGroup_ConcurrentMergeConflicts(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	paused := make(chan struct{})
	resume := make(chan struct{})
	var once sync.Once
	s.SetStepHook(func(step string) error {
		if step == store.StepCollect {
			once.Do(func() {
				close(paused)
				<-resume
			})
		}
		return nil
	})

	type outcome struct {
		result *model.MergeResult
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		result, err := svc.MergeGroup(context.Background(), "sig-123", "", "admin-1")
		first <- outcome{result, err}
	}()

	<-paused
	_, err := svc.MergeGroup(context.Background(), "sig-123", "", "admin-2")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))

	// A delete of a member already locked by the merge conflicts as well.
	_, err = svc.DeleteUser(context.Background(), "B", "admin-2")
	assert.True(t, errors.IsConflict(err))

	close(resume)
	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.result.AbsorbedCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Merges.WithLabelValues(outcomeConflict)))
}

func TestMergeGroup_FailedStepRollsBack(t *testing.T) {
	for _, step := range []string{store.StepReassign, store.StepDeleteUser, store.StepAddCounters, store.StepCommit} {
		t.Run(step, func(t *testing.T) {
			s := store.NewMemoryStore()
			seedAB(t, s)
			svc := newTestService(s)
			failing := step
			s.SetStepHook(func(current string) error {
				if current == failing {
					return stderrors.New("disk full")
				}
				return nil
			})

			_, err := svc.MergeGroup(context.Background(), "sig-123", "", "admin")
			require.Error(t, err)
			assert.True(t, errors.IsCascadeFailure(err))

			ctx := context.Background()
			a, err := s.GetUser(ctx, "A")
			require.NoError(t, err)
			assert.Equal(t, int64(1), a.TotalPaidGeneration)
			b, err := s.GetUser(ctx, "B")
			require.NoError(t, err)
			require.NotNil(t, b)
			counts, err := s.CountChildRows(ctx, "B")
			require.NoError(t, err)
			assert.Equal(t, 4, counts[constants.SummaryGenerationsTable])

			// Locks were released, so the merge can be retried.
			s.SetStepHook(nil)
			result, err := svc.MergeGroup(ctx, "sig-123", "", "admin")
			require.NoError(t, err)
			assert.Equal(t, 1, result.AbsorbedCount)
		})
	}
}

func TestMergeGroup_StoreUnavailable(t *testing.T) {
	svc := newTestService(unreachableStore{store.NewMemoryStore()})

	_, err := svc.MergeGroup(context.Background(), "sig-123", "", "admin")
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestGetDuplicateGroup(t *testing.T) {
	s := store.NewMemoryStore()
	seedAB(t, s)
	svc := newTestService(s)

	group, err := svc.GetDuplicateGroup(context.Background(), "sig-123")
	require.NoError(t, err)
	assert.Equal(t, 2, group.Size)
	assert.Equal(t, "A", group.PrimaryId)
	require.Len(t, group.Members, 2)
	assert.Equal(t, "A", group.Members[0].UserId)

	_, err = svc.GetDuplicateGroup(context.Background(), "sig-unknown")
	assert.True(t, errors.IsNotFound(err))
	_, err = svc.GetDuplicateGroup(context.Background(), "")
	assert.True(t, errors.IsValidation(err))
}
