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

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/dbtest"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

type seededStore interface {
	UserStore
	Seeder
}

func TestMain(m *testing.M) {
	log.Init("ERROR")
	m.Run()
}

func lastUsed(t time.Time) *time.Time {
	return &t
}

func seed(t *testing.T, s seededStore) {
	t.Helper()
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)

	users := []model.UserRecord{
		{UserId: "u1", UserName: "Amara", Email: "amara@example.com", City: "Kandy", Gender: "Female",
			DateOfBirth: "1995-02-03", LastUsed: lastUsed(at), TotalSummaryGeneration: 2, TotalPaidGeneration: 1, Signature: "sig-1"},
		{UserId: "u2", IsAnonymous: true, City: "kandy ", Gender: "female", LastUsed: lastUsed(at.AddDate(0, 0, -8)),
			TotalSummaryGeneration: 4, TotalPaidGeneration: 2, Signature: "sig-1"},
		{UserId: "u3", UserName: "Ravi", Gender: "Male", DateOfBirth: "41", TotalPaidGeneration: 7},
	}
	for _, u := range users {
		require.NoError(t, s.InsertUser(ctx, u))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, s.InsertChildRow(ctx, constants.SummaryGenerationsTable, fmt.Sprintf("sg-%d", i), "u2"))
	}
	require.NoError(t, s.InsertChildRow(ctx, constants.QuestionAnswersTable, "qa-1", "u2"))
	require.NoError(t, s.InsertChildRow(ctx, constants.TransactionsTable, "tx-1", "u1"))
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) seededStore) {
	ctx := context.Background()

	t.Run("reads round trip", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		users, err := s.ListUsers(ctx, nil)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []string{"u1", "u2", "u3"}, []string{users[0].UserId, users[1].UserId, users[2].UserId})

		u2, err := s.GetUser(ctx, "u2")
		require.NoError(t, err)
		require.NotNil(t, u2)
		assert.True(t, u2.IsAnonymous)
		assert.Equal(t, "sig-1", u2.Signature)
		assert.Equal(t, int64(4), u2.TotalSummaryGeneration)
		require.NotNil(t, u2.LastUsed)
		assert.Equal(t, time.Date(2026, 4, 23, 8, 30, 0, 0, time.UTC), u2.LastUsed.UTC())

		u3, err := s.GetUser(ctx, "u3")
		require.NoError(t, err)
		assert.Nil(t, u3.LastUsed)
		assert.Equal(t, "", u3.Signature)

		missing, err := s.GetUser(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("list narrows to a superset of matches", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		minPaid := int64(2)
		users, err := s.ListUsers(ctx, &model.FilterCriteria{Gender: "FEMALE", City: "Kandy", MinPaidGeneration: &minPaid})
		require.NoError(t, err)
		ids := make([]string, 0)
		for _, u := range users {
			ids = append(ids, u.UserId)
		}
		assert.Contains(t, ids, "u2")
	})

	t.Run("reassign then delete commits together", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.RunInTx(ctx, func(tx UserTx) error {
			ok, err := tx.TryLock(ctx, "group:sig-1", "user:u1", "user:u2")
			require.NoError(t, err)
			require.True(t, ok)

			rows, err := tx.CollectChildRows(ctx, []string{"u2"})
			require.NoError(t, err)
			require.Len(t, rows, 5)

			moved, err := tx.ReassignChildRows(ctx, rows, "u1")
			require.NoError(t, err)
			assert.Equal(t, 4, moved[constants.SummaryGenerationsTable])
			assert.Equal(t, 1, moved[constants.QuestionAnswersTable])

			require.NoError(t, tx.DeleteUser(ctx, "u2"))
			return tx.AddCounters(ctx, "u1", 4, 2)
		})
		require.NoError(t, err)

		u1, err := s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), u1.TotalPaidGeneration)
		assert.Equal(t, int64(6), u1.TotalSummaryGeneration)

		counts, err := s.CountChildRows(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{
			constants.QuestionAnswersTable:    1,
			constants.SummaryGenerationsTable: 4,
			constants.TransactionsTable:       1,
		}, counts)

		gone, err := s.GetUser(ctx, "u2")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})

	t.Run("failed transaction rolls back", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.RunInTx(ctx, func(tx UserTx) error {
			rows, err := tx.CollectChildRows(ctx, []string{"u2"})
			require.NoError(t, err)
			_, err = tx.ReassignChildRows(ctx, rows, "u1")
			require.NoError(t, err)
			return fmt.Errorf("abort after reassign")
		})
		require.Error(t, err)

		counts, err := s.CountChildRows(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, 4, counts[constants.SummaryGenerationsTable])
		assert.Equal(t, 1, counts[constants.QuestionAnswersTable])
	})

	t.Run("delete cascade", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.RunInTx(ctx, func(tx UserTx) error {
			rows, err := tx.CollectChildRows(ctx, []string{"u2"})
			if err != nil {
				return err
			}
			deleted, err := tx.DeleteChildRows(ctx, rows)
			if err != nil {
				return err
			}
			assert.Equal(t, 4, deleted[constants.SummaryGenerationsTable])
			return tx.DeleteUser(ctx, "u2")
		})
		require.NoError(t, err)

		counts, err := s.CountChildRows(ctx, "u2")
		require.NoError(t, err)
		for table, n := range counts {
			assert.Zero(t, n, table)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.RunInTx(ctx, func(tx UserTx) error {
			return tx.DeleteUser(ctx, "nobody")
		})
		assert.True(t, errors.IsNotFound(err))

		err = s.RunInTx(ctx, func(tx UserTx) error {
			return tx.AddCounters(ctx, "nobody", 1, 1)
		})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("deleting a user that still owns rows fails", func(t *testing.T) {
		s := newStore(t)
		seed(t, s)

		err := s.RunInTx(ctx, func(tx UserTx) error {
			return tx.DeleteUser(ctx, "u2")
		})
		require.Error(t, err)

		u2, err := s.GetUser(ctx, "u2")
		require.NoError(t, err)
		assert.NotNil(t, u2)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) seededStore { return NewMemoryStore() })
}

func TestSQLStore_SQLite(t *testing.T) {
	runStoreContract(t, func(t *testing.T) seededStore { return NewSQLStore(dbtest.NewSQLite(t)) })
}

func TestSQLStore_Postgres(t *testing.T) {
	dbClient := dbtest.NewPostgres(t)
	ctx := context.Background()
	runStoreContract(t, func(t *testing.T) seededStore {
		for _, table := range append(append([]string{}, constants.ChildTables...), "users") {
			_, err := dbClient.ExecuteUpdate(ctx, "DELETE FROM "+table)
			require.NoError(t, err)
		}
		return NewSQLStore(dbClient)
	})
}

func TestSQLStore_AdvisoryLockExcludesOtherTransactions(t *testing.T) {
	s := NewSQLStore(dbtest.NewPostgres(t))
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.RunInTx(ctx, func(tx UserTx) error {
			ok, err := tx.TryLock(ctx, "group:sig-9")
			if err != nil || !ok {
				return fmt.Errorf("first lock not acquired: %v", err)
			}
			close(held)
			<-release
			return nil
		})
	}()

	<-held
	err := s.RunInTx(ctx, func(tx UserTx) error {
		ok, err := tx.TryLock(ctx, "group:sig-9")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)
}

func TestMemoryStore_StepHookFailsTransaction(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s)
	ctx := context.Background()
	s.SetStepHook(func(step string) error {
		if step == StepDeleteUser {
			return fmt.Errorf("injected")
		}
		return nil
	})

	err := s.RunInTx(ctx, func(tx UserTx) error {
		rows, err := tx.CollectChildRows(ctx, []string{"u2"})
		require.NoError(t, err)
		_, err = tx.ReassignChildRows(ctx, rows, "u1")
		require.NoError(t, err)
		return tx.DeleteUser(ctx, "u2")
	})
	require.EqualError(t, err, "injected")

	counts, err := s.CountChildRows(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, counts[constants.SummaryGenerationsTable])
}

func TestPushdownWhere(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	minPaid := int64(3)
	criteria := &model.FilterCriteria{Gender: " Female ", MinPaidGeneration: &minPaid, LastUsedFrom: &from, SearchTerm: "x"}

	where, args := pushdownWhere("postgres", criteria)
	assert.Equal(t, " WHERE LOWER(TRIM(gender)) = $1 AND total_paid_generation >= $2 AND last_used >= $3", where)
	assert.Equal(t, []interface{}{"female", int64(3), from.Unix()}, args)

	where, _ = pushdownWhere("sqlite", criteria)
	assert.Equal(t, " WHERE LOWER(TRIM(gender)) = ? AND total_paid_generation >= ? AND last_used >= ?", where)

	where, args = pushdownWhere("postgres", &model.FilterCriteria{SearchTerm: "only free text"})
	assert.Empty(t, where)
	assert.Empty(t, args)
}
