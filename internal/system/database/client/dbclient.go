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

package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	ExecuteUpdate(ctx context.Context, query string, args ...interface{}) (int64, error)
	BeginTx(ctx context.Context) (TxInterface, error)
	Ping(ctx context.Context) error
	InitSchema(ctx context.Context, schema string) error
	DBType() string
	Close() error
}

// TxInterface is a transaction scoped view of the client. Everything executed through it commits or rolls back
// together.
type TxInterface interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	ExecuteUpdate(ctx context.Context, query string, args ...interface{}) (int64, error)
	DBType() string
	Commit() error
	Rollback() error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     *sql.DB
	dbType string
}

// DBTx is the implementation of TxInterface.
type DBTx struct {
	tx     *sql.Tx
	dbType string
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db *sql.DB, dbType string) DBClientInterface {

	return &DBClient{
		db:     db,
		dbType: dbType,
	}
}

// InitSchema executes the given DDL script.
func (client *DBClient) InitSchema(ctx context.Context, schema string) error {

	if client.dbType == DBTypeSQLite {
		// The sqlite driver runs only the first statement of a multi statement Exec on some builds.
		for _, stmt := range strings.Split(schema, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := client.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to execute schema: %w", err)
			}
		}
	} else if _, err := client.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.GetLogger().Info("Database schema created successfully", log.String("db_type", client.dbType))
	return nil
}

// ExecuteQuery executes a SELECT query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(ctx, client.db, query, args...)
}

// ExecuteUpdate executes an INSERT, UPDATE or DELETE and returns the affected row count.
func (client *DBClient) ExecuteUpdate(ctx context.Context, query string, args ...interface{}) (int64, error) {

	return executeUpdate(ctx, client.db, query, args...)
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context) (TxInterface, error) {

	tx, err := client.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &DBTx{tx: tx, dbType: client.dbType}, nil
}

// Ping verifies the connection to the database.
func (client *DBClient) Ping(ctx context.Context) error {

	return client.db.PingContext(ctx)
}

func (client *DBClient) DBType() string {
	return client.dbType
}

// Close closes the underlying pool.
func (client *DBClient) Close() error {
	return client.db.Close()
}

func (t *DBTx) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(ctx, t.tx, query, args...)
}

func (t *DBTx) ExecuteUpdate(ctx context.Context, query string, args ...interface{}) (int64, error) {

	return executeUpdate(ctx, t.tx, query, args...)
}

func (t *DBTx) DBType() string {
	return t.dbType
}

func (t *DBTx) Commit() error {
	return t.tx.Commit()
}

func (t *DBTx) Rollback() error {
	return t.tx.Rollback()
}

func executeQuery(ctx context.Context, q queryer, query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func executeUpdate(ctx context.Context, q queryer, query string, args ...interface{}) (int64, error) {

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Placeholder returns the positional bind marker for the n-th (1-based) argument in the given dialect.
func Placeholder(dbType string, n int) string {
	if dbType == DBTypeSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}
