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

package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceSQLite   = "sqlite"
	DataSourceMemory   = "memory"

	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// LoadConfig reads the deployment yaml relative to home, expanding ${ENV} references.
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when a key is absent from the deployment file.
func Default() Config {
	return Config{
		Addr: AddrConfig{Host: "0.0.0.0", Port: 8900},
		Log:  LogConfig{LogLevel: "INFO", Format: "text"},
		DataSource: DataSourceConfig{
			Type:    DataSourcePostgres,
			SSLMode: "disable",
		},
		Lock:       LockConfig{Backend: LockBackendMemory, TTLSeconds: 30},
		Statistics: StatisticsConfig{ActiveWindowDays: 30, CacheTTLSeconds: 15},
		Pagination: PaginationConfig{DefaultPageSize: 10, MaxPageSize: 200},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			IntervalSeconds:  30,
			TimeoutSeconds:   60,
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
	}
}

// OverrideRuntime replaces the runtime configuration. Used by tests.
func OverrideRuntime(conf Config) {
	runtimeConfig = &Runtime{
		Config: conf,
	}
}

func (c StatisticsConfig) ActiveWindow() time.Duration {
	return time.Duration(c.ActiveWindowDays) * 24 * time.Hour
}

func (c StatisticsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c LockConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
