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

package provider

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/client"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
	dbType     string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	GetDBType() string
}

// DBProvider is the implementation of DBProviderInterface. All clients share one pool per process.
type DBProvider struct{}

var (
	poolMu     sync.Mutex
	pool       *sql.DB
	poolDBType string
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns a database client for the configured data source.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	poolMu.Lock()
	defer poolMu.Unlock()

	if pool != nil {
		return client.NewDBClient(pool, poolDBType), nil
	}

	dataSource := config.GetRuntime().Config.DataSource
	dbConfig, err := getDBConfig(dataSource)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	configurePool(db, dataSource, dbConfig.dbType)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool, poolDBType = db, dbConfig.dbType
	return client.NewDBClient(pool, poolDBType), nil
}

// GetDBType returns the dialect of the configured data source.
func (d *DBProvider) GetDBType() string {

	poolMu.Lock()
	defer poolMu.Unlock()
	if pool != nil {
		return poolDBType
	}
	if config.GetRuntime().Config.DataSource.Type == config.DataSourceSQLite {
		return client.DBTypeSQLite
	}
	return client.DBTypePostgres
}

// SetTestDB installs an already opened database as the shared pool.
func SetTestDB(db *sql.DB, dbType string) {
	poolMu.Lock()
	defer poolMu.Unlock()
	pool, poolDBType = db, dbType
}

// getDBConfig returns the driver and dsn for the configured data source.
func getDBConfig(dataSource config.DataSourceConfig) (DBConfig, error) {

	switch dataSource.Type {
	case config.DataSourcePostgres, "":
		return DBConfig{
			driverName: "postgres",
			dbType:     client.DBTypePostgres,
			dsn: fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
				dataSource.Name, dataSource.SSLMode),
		}, nil
	case config.DataSourceSQLite:
		if dataSource.Path == "" {
			return DBConfig{}, fmt.Errorf("sqlite datasource requires a path")
		}
		return DBConfig{
			driverName: "sqlite3",
			dbType:     client.DBTypeSQLite,
			dsn:        dataSource.Path + "?_foreign_keys=on&_busy_timeout=5000",
		}, nil
	default:
		return DBConfig{}, fmt.Errorf("unsupported datasource type %q", dataSource.Type)
	}
}

func configurePool(db *sql.DB, dataSource config.DataSourceConfig, dbType string) {
	if dbType == client.DBTypeSQLite {
		// A single writer connection keeps sqlite transactions from failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		return
	}
	if dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dataSource.MaxOpenConns)
	}
	if dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dataSource.MaxIdleConns)
	}
	if dataSource.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetime) * time.Second)
	}
}
