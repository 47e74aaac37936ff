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
	"hash/fnv"
	"strings"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/client"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/scripts"
	"github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/system/utils"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
)

// SQLStore keeps users and their child rows in a relational database through the shared DB client.
type SQLStore struct {
	dbClient client.DBClientInterface
}

// SQLTx is the transactional view of SQLStore.
type SQLTx struct {
	tx client.TxInterface
}

func NewSQLStore(dbClient client.DBClientInterface) *SQLStore {
	return &SQLStore{dbClient: dbClient}
}

func (s *SQLStore) ListUsers(ctx context.Context, criteria *model.FilterCriteria) ([]model.UserRecord, error) {

	dbType := s.dbClient.DBType()
	where, args := pushdownWhere(dbType, criteria)
	query := scripts.SelectUsers[dbType] + where + " ORDER BY user_id"

	results, err := s.dbClient.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, queryError("Failed to list users.", err)
	}
	return scanUsers(results)
}

func (s *SQLStore) GetUser(ctx context.Context, userId string) (*model.UserRecord, error) {
	return getUser(ctx, s.dbClient, s.dbClient.DBType(), userId)
}

func (s *SQLStore) CountChildRows(ctx context.Context, userId string) (map[string]int, error) {

	dbType := s.dbClient.DBType()
	counts := make(map[string]int, len(constants.ChildTables))
	for _, table := range constants.ChildTables {
		results, err := s.dbClient.ExecuteQuery(ctx, fmt.Sprintf(scripts.CountChildRowsByUser[dbType], table), userId)
		if err != nil {
			return nil, queryError(fmt.Sprintf("Failed to count %s rows of user %s.", table, userId), err)
		}
		total := int64(0)
		if len(results) > 0 {
			if total, _, err = utils.ToInt64(results[0]["total"]); err != nil {
				return nil, scanError(err)
			}
		}
		counts[table] = int(total)
	}
	return counts, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(tx UserTx) error) error {

	logger := log.GetLogger()
	tx, err := s.dbClient.BeginTx(ctx)
	if err != nil {
		return queryError("Failed to begin transaction.", err)
	}

	if err := fn(&SQLTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Failed to roll back transaction", log.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return queryError("Failed to commit transaction.", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.dbClient.Ping(ctx)
}

func (s *SQLStore) InsertUser(ctx context.Context, user model.UserRecord) error {

	anonymous := "FALSE"
	if user.IsAnonymous {
		anonymous = "TRUE"
	}
	var lastUsed interface{}
	if user.LastUsed != nil {
		lastUsed = user.LastUsed.Unix()
	}
	var sig interface{}
	if user.Signature != "" {
		sig = user.Signature
	}

	_, err := s.dbClient.ExecuteUpdate(ctx, scripts.InsertUser[s.dbClient.DBType()],
		user.UserId, user.UserName, user.Email, user.MobileNumber, user.City, user.Gender, user.DateOfBirth,
		anonymous, lastUsed, user.TotalSummaryGeneration, user.TotalPaidGeneration, sig)
	if err != nil {
		return queryError(fmt.Sprintf("Failed to insert user %s.", user.UserId), err)
	}
	return nil
}

func (s *SQLStore) InsertChildRow(ctx context.Context, table, id, userId string) error {

	if !isChildTable(table) {
		return fmt.Errorf("unknown child table %q", table)
	}
	_, err := s.dbClient.ExecuteUpdate(ctx, fmt.Sprintf(scripts.InsertChildRow[s.dbClient.DBType()], table), id, userId, 0)
	if err != nil {
		return queryError(fmt.Sprintf("Failed to insert %s row %s.", table, id), err)
	}
	return nil
}

func (t *SQLTx) TryLock(ctx context.Context, keys ...string) (bool, error) {

	query, ok := scripts.TryAdvisoryXactLock[t.tx.DBType()]
	if !ok {
		return true, nil
	}
	for _, key := range keys {
		results, err := t.tx.ExecuteQuery(ctx, query, advisoryLockId(key))
		if err != nil {
			return false, queryError(fmt.Sprintf("Failed to take advisory lock for '%s'.", key), err)
		}
		if len(results) == 0 {
			return false, nil
		}
		if acquired, _ := results[0]["acquired"].(bool); !acquired {
			return false, nil
		}
	}
	return true, nil
}

func (t *SQLTx) ListUsers(ctx context.Context) ([]model.UserRecord, error) {

	results, err := t.tx.ExecuteQuery(ctx, scripts.SelectUsers[t.tx.DBType()]+" ORDER BY user_id")
	if err != nil {
		return nil, queryError("Failed to list users.", err)
	}
	return scanUsers(results)
}

func (t *SQLTx) GetUser(ctx context.Context, userId string) (*model.UserRecord, error) {
	return getUser(ctx, t.tx, t.tx.DBType(), userId)
}

func (t *SQLTx) CollectChildRows(ctx context.Context, userIds []string) ([]model.ChildRow, error) {

	if len(userIds) == 0 {
		return nil, nil
	}
	dbType := t.tx.DBType()
	args := make([]interface{}, len(userIds))
	for i, id := range userIds {
		args[i] = id
	}

	var rows []model.ChildRow
	for _, table := range constants.ChildTables {
		query := fmt.Sprintf(scripts.SelectChildRowIds[dbType], table, placeholders(dbType, 1, len(userIds)))
		results, err := t.tx.ExecuteQuery(ctx, query, args...)
		if err != nil {
			return nil, queryError(fmt.Sprintf("Failed to collect %s rows.", table), err)
		}
		for _, result := range results {
			id, _ := utils.ToString(result["id"])
			owner, _ := utils.ToString(result["user_id"])
			rows = append(rows, model.ChildRow{Table: table, Id: id, UserId: owner})
		}
	}
	return rows, nil
}

func (t *SQLTx) ReassignChildRows(ctx context.Context, rows []model.ChildRow, survivorId string) (map[string]int, error) {

	dbType := t.tx.DBType()
	counts := make(map[string]int)
	for table, ids := range groupByTable(rows) {
		args := make([]interface{}, 0, len(ids)+1)
		args = append(args, survivorId)
		for _, id := range ids {
			args = append(args, id)
		}
		query := fmt.Sprintf(scripts.ReassignChildRows[dbType], table, placeholders(dbType, 2, len(ids)))
		affected, err := t.tx.ExecuteUpdate(ctx, query, args...)
		if err != nil {
			return nil, queryError(fmt.Sprintf("Failed to reassign %s rows to %s.", table, survivorId), err)
		}
		if int(affected) != len(ids) {
			return nil, fmt.Errorf("reassigned %d of %d %s rows", affected, len(ids), table)
		}
		counts[table] = int(affected)
	}
	return counts, nil
}

func (t *SQLTx) DeleteChildRows(ctx context.Context, rows []model.ChildRow) (map[string]int, error) {

	dbType := t.tx.DBType()
	counts := make(map[string]int)
	for table, ids := range groupByTable(rows) {
		args := make([]interface{}, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		query := fmt.Sprintf(scripts.DeleteChildRows[dbType], table, placeholders(dbType, 1, len(ids)))
		affected, err := t.tx.ExecuteUpdate(ctx, query, args...)
		if err != nil {
			return nil, queryError(fmt.Sprintf("Failed to delete %s rows.", table), err)
		}
		if int(affected) != len(ids) {
			return nil, fmt.Errorf("deleted %d of %d %s rows", affected, len(ids), table)
		}
		counts[table] = int(affected)
	}
	return counts, nil
}

func (t *SQLTx) DeleteUser(ctx context.Context, userId string) error {

	affected, err := t.tx.ExecuteUpdate(ctx, scripts.DeleteUser[t.tx.DBType()], userId)
	if err != nil {
		return queryError(fmt.Sprintf("Failed to delete user %s.", userId), err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("User %s does not exist.", userId))
	}
	return nil
}

func (t *SQLTx) AddCounters(ctx context.Context, userId string, summary, paid int64) error {

	affected, err := t.tx.ExecuteUpdate(ctx, scripts.AddUserCounters[t.tx.DBType()], summary, paid, userId)
	if err != nil {
		return queryError(fmt.Sprintf("Failed to update counters of user %s.", userId), err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("User %s does not exist.", userId))
	}
	return nil
}

type querier interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
}

func getUser(ctx context.Context, q querier, dbType, userId string) (*model.UserRecord, error) {

	results, err := q.ExecuteQuery(ctx, scripts.SelectUserById[dbType], userId)
	if err != nil {
		return nil, queryError(fmt.Sprintf("Failed to fetch user %s.", userId), err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	user, err := scanUser(results[0])
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// pushdownWhere narrows the read with the predicates that compare the same way in SQL as in filter.Matches. The
// remaining predicates (free text, anonymous flag, age) are evaluated in Go over the result.
func pushdownWhere(dbType string, criteria *model.FilterCriteria) (string, []interface{}) {

	if criteria == nil {
		return "", nil
	}
	var conditions []string
	var args []interface{}
	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, client.Placeholder(dbType, len(args))))
	}

	if gender := strings.TrimSpace(criteria.Gender); gender != "" {
		add("LOWER(TRIM(gender)) = %s", strings.ToLower(gender))
	}
	if city := strings.TrimSpace(criteria.City); city != "" {
		add("LOWER(TRIM(city)) = %s", strings.ToLower(city))
	}
	if criteria.MinPaidGeneration != nil {
		add("total_paid_generation >= %s", *criteria.MinPaidGeneration)
	}
	if criteria.MaxPaidGeneration != nil {
		add("total_paid_generation <= %s", *criteria.MaxPaidGeneration)
	}
	if criteria.MinSummaryGeneration != nil {
		add("total_summary_generation >= %s", *criteria.MinSummaryGeneration)
	}
	if criteria.MaxSummaryGeneration != nil {
		add("total_summary_generation <= %s", *criteria.MaxSummaryGeneration)
	}
	// last_used holds whole seconds, so comparing against the truncated bounds never drops a matching record.
	if criteria.LastUsedFrom != nil {
		add("last_used >= %s", criteria.LastUsedFrom.Unix())
	}
	if criteria.LastUsedTo != nil {
		add("last_used <= %s", criteria.LastUsedTo.Unix())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanUsers(results []map[string]interface{}) ([]model.UserRecord, error) {
	users := make([]model.UserRecord, 0, len(results))
	for _, row := range results {
		user, err := scanUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func scanUser(row map[string]interface{}) (model.UserRecord, error) {

	var user model.UserRecord
	user.UserId, _ = utils.ToString(row["user_id"])
	user.UserName, _ = utils.ToString(row["user_name"])
	user.Email, _ = utils.ToString(row["email"])
	user.MobileNumber, _ = utils.ToString(row["mobile_number"])
	user.City, _ = utils.ToString(row["city"])
	user.Gender, _ = utils.ToString(row["gender"])
	user.DateOfBirth, _ = utils.ToString(row["dob"])
	user.Signature, _ = utils.ToString(row["signature"])
	user.IsAnonymous = utils.ToBool(row["is_anonymous"])

	var err error
	if user.LastUsed, err = utils.ToUnixTime(row["last_used"]); err != nil {
		return user, scanError(err)
	}
	if user.TotalSummaryGeneration, _, err = utils.ToInt64(row["total_summary_generation"]); err != nil {
		return user, scanError(err)
	}
	if user.TotalPaidGeneration, _, err = utils.ToInt64(row["total_paid_generation"]); err != nil {
		return user, scanError(err)
	}
	return user, nil
}

func placeholders(dbType string, start, count int) string {
	marks := make([]string, count)
	for i := range marks {
		marks[i] = client.Placeholder(dbType, start+i)
	}
	return strings.Join(marks, ", ")
}

// advisoryLockId hashes a lock key into the bigint space of postgres advisory locks.
func advisoryLockId(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}

func isChildTable(table string) bool {
	for _, t := range constants.ChildTables {
		if t == table {
			return true
		}
	}
	return false
}

func queryError(description string, err error) error {
	log.GetLogger().Debug(description, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.EXECUTE_QUERY.Code,
		Message:     errors.EXECUTE_QUERY.Message,
		Description: description,
	}, err)
}

func scanError(err error) error {
	return errors.NewServerError(errors.ErrorMessage{
		Code:        errors.SCAN_ROW.Code,
		Message:     errors.SCAN_ROW.Message,
		Description: "Stored user record has a malformed column.",
	}, err)
}
