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

package scripts

import (
	_ "embed"
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

// Schema holds the DDL for the users table and its child tables.
var Schema = map[string]string{
	"postgres": postgresSchema,
	"sqlite":   sqliteSchema,
}

const userColumns = `user_id, user_name, email, mobile_number, city, gender, dob, is_anonymous, last_used,
       total_summary_generation, total_paid_generation, signature`

// SelectUsers is the base of the filtered user read. Callers append a WHERE clause.
var SelectUsers = map[string]string{
	"postgres": `SELECT ` + userColumns + ` FROM users`,
	"sqlite":   `SELECT ` + userColumns + ` FROM users`,
}

var SelectUserById = map[string]string{
	"postgres": `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`,
	"sqlite":   `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`,
}

var InsertUser = map[string]string{
	"postgres": `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
	"sqlite":   `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
}

var DeleteUser = map[string]string{
	"postgres": `DELETE FROM users WHERE user_id = $1`,
	"sqlite":   `DELETE FROM users WHERE user_id = ?`,
}

var AddUserCounters = map[string]string{
	"postgres": `UPDATE users SET total_summary_generation = total_summary_generation + $1,
       total_paid_generation = total_paid_generation + $2 WHERE user_id = $3`,
	"sqlite": `UPDATE users SET total_summary_generation = total_summary_generation + ?,
       total_paid_generation = total_paid_generation + ? WHERE user_id = ?`,
}

// InsertChildRow inserts a minimal row into one of the child tables. The table name is substituted by the caller
// from the fixed list of child tables.
var InsertChildRow = map[string]string{
	"postgres": `INSERT INTO %s (id, user_id, created_at) VALUES ($1, $2, $3)`,
	"sqlite":   `INSERT INTO %s (id, user_id, created_at) VALUES (?, ?, ?)`,
}

// SelectChildRowIds, ReassignChildRows and DeleteChildRows take the table name and an IN list built by the caller.
var SelectChildRowIds = map[string]string{
	"postgres": `SELECT id, user_id FROM %s WHERE user_id IN (%s) ORDER BY id`,
	"sqlite":   `SELECT id, user_id FROM %s WHERE user_id IN (%s) ORDER BY id`,
}

var ReassignChildRows = map[string]string{
	"postgres": `UPDATE %s SET user_id = $1 WHERE id IN (%s)`,
	"sqlite":   `UPDATE %s SET user_id = ? WHERE id IN (%s)`,
}

var DeleteChildRows = map[string]string{
	"postgres": `DELETE FROM %s WHERE id IN (%s)`,
	"sqlite":   `DELETE FROM %s WHERE id IN (%s)`,
}

var CountChildRowsByUser = map[string]string{
	"postgres": `SELECT COUNT(*) AS total FROM %s WHERE user_id = $1`,
	"sqlite":   `SELECT COUNT(*) AS total FROM %s WHERE user_id = ?`,
}

// TryAdvisoryXactLock takes a transaction scoped advisory lock without waiting. Dialects without advisory locks
// have no entry.
var TryAdvisoryXactLock = map[string]string{
	"postgres": `SELECT pg_try_advisory_xact_lock($1) AS acquired`,
}

var Ping = map[string]string{
	"postgres": `SELECT 1`,
	"sqlite":   `SELECT 1`,
}
