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

	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// UserStore is the record store boundary. Reads outside a transaction may observe a merge or delete that committed
// an instant earlier. Writes only happen inside RunInTx.
type UserStore interface {
	// ListUsers returns a superset of the records matching criteria. Stores narrow the read by the predicates they
	// can evaluate natively; callers apply filter.Matches to the result.
	ListUsers(ctx context.Context, criteria *model.FilterCriteria) ([]model.UserRecord, error)
	GetUser(ctx context.Context, userId string) (*model.UserRecord, error)
	// CountChildRows counts the child rows owned by a user, per child table.
	CountChildRows(ctx context.Context, userId string) (map[string]int, error)
	// RunInTx runs fn in one transaction. The transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(tx UserTx) error) error
	Ping(ctx context.Context) error
}

// UserTx is the transactional view used by merge and delete.
type UserTx interface {
	// TryLock takes transaction scoped locks on keys without waiting. It returns false when another transaction
	// holds one of them. Stores without native locks always succeed.
	TryLock(ctx context.Context, keys ...string) (bool, error)
	ListUsers(ctx context.Context) ([]model.UserRecord, error)
	GetUser(ctx context.Context, userId string) (*model.UserRecord, error)
	// CollectChildRows returns every child row owned by any of userIds, across all child tables.
	CollectChildRows(ctx context.Context, userIds []string) ([]model.ChildRow, error)
	ReassignChildRows(ctx context.Context, rows []model.ChildRow, survivorId string) (map[string]int, error)
	DeleteChildRows(ctx context.Context, rows []model.ChildRow) (map[string]int, error)
	DeleteUser(ctx context.Context, userId string) error
	AddCounters(ctx context.Context, userId string, summary, paid int64) error
}

// Seeder loads records into a store. Records are created outside this service, so only tooling and tests seed.
type Seeder interface {
	InsertUser(ctx context.Context, user model.UserRecord) error
	InsertChildRow(ctx context.Context, table, id, userId string) error
}

func groupByTable(rows []model.ChildRow) map[string][]string {
	byTable := make(map[string][]string)
	for _, row := range rows {
		byTable[row.Table] = append(byTable[row.Table], row.Id)
	}
	return byTable
}
