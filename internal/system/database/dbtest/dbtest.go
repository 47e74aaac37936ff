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

// Package dbtest opens throwaway databases with the user schema applied, for store and service tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/client"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/scripts"
)

var sqliteSeq atomic.Int64

// NewSQLite opens a private in-memory sqlite database. Each call gets its own database.
func NewSQLite(t *testing.T) client.DBClientInterface {
	t.Helper()

	name := fmt.Sprintf("file:usertest%d?mode=memory&cache=shared&_foreign_keys=on", sqliteSeq.Add(1))
	db, err := sql.Open("sqlite3", name)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	dbClient := client.NewDBClient(db, client.DBTypeSQLite)
	require.NoError(t, dbClient.InitSchema(context.Background(), scripts.Schema[client.DBTypeSQLite]))
	return dbClient
}

// NewPostgres starts a postgres container and applies the schema. The test is skipped in short mode or when no
// container runtime is available.
func NewPostgres(t *testing.T) client.DBClientInterface {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.PingContext(ctx))
	t.Cleanup(func() { _ = db.Close() })

	dbClient := client.NewDBClient(db, client.DBTypePostgres)
	require.NoError(t, dbClient.InitSchema(ctx, scripts.Schema[client.DBTypePostgres]))
	return dbClient
}
