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
	"sort"
	"sync"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// Transaction steps reported to a StepHook.
const (
	StepCollect        = "collect"
	StepReassign       = "reassign"
	StepDeleteChildren = "delete_children"
	StepDeleteUser     = "delete_user"
	StepAddCounters    = "add_counters"
	StepCommit         = "commit"
)

// StepHook runs before each transaction step of the memory store. A non nil error fails the step.
type StepHook func(step string) error

type memoryState struct {
	users    map[string]model.UserRecord
	children map[string]map[string]model.ChildRow
}

// MemoryStore keeps users in process memory. Transactions work on a private copy of the state that replaces the
// shared state on commit, so a failed transaction leaves nothing behind. Transactions run one at a time.
type MemoryStore struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	state memoryState
	hook  StepHook
}

// MemoryTx is the transactional view of MemoryStore.
type MemoryTx struct {
	state memoryState
	hook  StepHook
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

// SetStepHook installs a hook that runs before each transaction step. Used to inject failures and to pause a
// transaction in tests.
func (s *MemoryStore) SetStepHook(hook StepHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

func (s *MemoryStore) ListUsers(_ context.Context, _ *model.FilterCriteria) ([]model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.sortedUsers(), nil
}

func (s *MemoryStore) GetUser(_ context.Context, userId string) (*model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.user(userId), nil
}

func (s *MemoryStore) CountChildRows(_ context.Context, userId string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(constants.ChildTables))
	for _, table := range constants.ChildTables {
		counts[table] = 0
		for _, row := range s.state.children[table] {
			if row.UserId == userId {
				counts[table]++
			}
		}
	}
	return counts, nil
}

func (s *MemoryStore) RunInTx(_ context.Context, fn func(tx UserTx) error) error {

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &MemoryTx{state: s.state.clone(), hook: s.hook}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.step(StepCommit); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = tx.state
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) InsertUser(_ context.Context, user model.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.state.users[user.UserId]; exists {
		return fmt.Errorf("user %s already exists", user.UserId)
	}
	s.state.users[user.UserId] = user
	return nil
}

func (s *MemoryStore) InsertChildRow(_ context.Context, table, id, userId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.state.children[table]
	if !ok {
		return fmt.Errorf("unknown child table %q", table)
	}
	if _, exists := s.state.users[userId]; !exists {
		return fmt.Errorf("%s row %s references missing user %s", table, id, userId)
	}
	rows[id] = model.ChildRow{Table: table, Id: id, UserId: userId}
	return nil
}

func (t *MemoryTx) TryLock(context.Context, ...string) (bool, error) {
	return true, nil
}

func (t *MemoryTx) ListUsers(context.Context) ([]model.UserRecord, error) {
	return t.state.sortedUsers(), nil
}

func (t *MemoryTx) GetUser(_ context.Context, userId string) (*model.UserRecord, error) {
	return t.state.user(userId), nil
}

func (t *MemoryTx) CollectChildRows(_ context.Context, userIds []string) ([]model.ChildRow, error) {

	if err := t.step(StepCollect); err != nil {
		return nil, err
	}
	owners := make(map[string]struct{}, len(userIds))
	for _, id := range userIds {
		owners[id] = struct{}{}
	}

	var rows []model.ChildRow
	for _, table := range constants.ChildTables {
		ids := make([]string, 0)
		for id, row := range t.state.children[table] {
			if _, ok := owners[row.UserId]; ok {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			rows = append(rows, t.state.children[table][id])
		}
	}
	return rows, nil
}

func (t *MemoryTx) ReassignChildRows(_ context.Context, rows []model.ChildRow, survivorId string) (map[string]int, error) {

	if err := t.step(StepReassign); err != nil {
		return nil, err
	}
	if _, ok := t.state.users[survivorId]; !ok {
		return nil, fmt.Errorf("survivor %s does not exist", survivorId)
	}
	counts := make(map[string]int)
	for _, row := range rows {
		current, ok := t.state.children[row.Table][row.Id]
		if !ok {
			return nil, fmt.Errorf("%s row %s vanished", row.Table, row.Id)
		}
		current.UserId = survivorId
		t.state.children[row.Table][row.Id] = current
		counts[row.Table]++
	}
	return counts, nil
}

func (t *MemoryTx) DeleteChildRows(_ context.Context, rows []model.ChildRow) (map[string]int, error) {

	if err := t.step(StepDeleteChildren); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, row := range rows {
		if _, ok := t.state.children[row.Table][row.Id]; !ok {
			return nil, fmt.Errorf("%s row %s vanished", row.Table, row.Id)
		}
		delete(t.state.children[row.Table], row.Id)
		counts[row.Table]++
	}
	return counts, nil
}

func (t *MemoryTx) DeleteUser(_ context.Context, userId string) error {

	if err := t.step(StepDeleteUser); err != nil {
		return err
	}
	if _, ok := t.state.users[userId]; !ok {
		return errors.NewNotFoundError(fmt.Sprintf("User %s does not exist.", userId))
	}
	for _, table := range constants.ChildTables {
		for _, row := range t.state.children[table] {
			if row.UserId == userId {
				return fmt.Errorf("user %s still owns %s row %s", userId, table, row.Id)
			}
		}
	}
	delete(t.state.users, userId)
	return nil
}

func (t *MemoryTx) AddCounters(_ context.Context, userId string, summary, paid int64) error {

	if err := t.step(StepAddCounters); err != nil {
		return err
	}
	user, ok := t.state.users[userId]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("User %s does not exist.", userId))
	}
	user.TotalSummaryGeneration += summary
	user.TotalPaidGeneration += paid
	t.state.users[userId] = user
	return nil
}

func (t *MemoryTx) step(name string) error {
	if t.hook == nil {
		return nil
	}
	return t.hook(name)
}

func newMemoryState() memoryState {
	state := memoryState{
		users:    make(map[string]model.UserRecord),
		children: make(map[string]map[string]model.ChildRow, len(constants.ChildTables)),
	}
	for _, table := range constants.ChildTables {
		state.children[table] = make(map[string]model.ChildRow)
	}
	return state
}

func (m memoryState) clone() memoryState {
	c := newMemoryState()
	for id, user := range m.users {
		c.users[id] = user
	}
	for table, rows := range m.children {
		for id, row := range rows {
			c.children[table][id] = row
		}
	}
	return c
}

func (m memoryState) sortedUsers() []model.UserRecord {
	users := make([]model.UserRecord, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserId < users[j].UserId })
	return users
}

func (m memoryState) user(userId string) *model.UserRecord {
	user, ok := m.users[userId]
	if !ok {
		return nil
	}
	return &user
}
