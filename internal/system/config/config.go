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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// JWTSigningKey enables bearer token verification when set.
	JWTSigningKey  string              `yaml:"jwt_signing_key"`
	Audience       string              `yaml:"audience"`
	RequiredScopes map[string][]string `yaml:"required_scopes"`
}

type DataSourceConfig struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds"`
}

type LockConfig struct {
	Backend       string `yaml:"backend"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
}

type StatisticsConfig struct {
	ActiveWindowDays int `yaml:"active_window_days"`
	CacheTTLSeconds  int `yaml:"cache_ttl_seconds"`
}

type PaginationConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

type CircuitBreakerConfig struct {
	Enabled          bool    `yaml:"enabled"`
	MaxRequests      uint32  `yaml:"max_requests"`
	IntervalSeconds  int     `yaml:"interval_seconds"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
	FailureThreshold float64 `yaml:"failure_threshold"`
	MinRequests      uint32  `yaml:"min_requests"`
}

type Config struct {
	Addr           AddrConfig           `yaml:"addr"`
	Log            LogConfig            `yaml:"log"`
	Auth           AuthConfig           `yaml:"auth"`
	DataSource     DataSourceConfig     `yaml:"datasource"`
	Lock           LockConfig           `yaml:"lock"`
	Statistics     StatisticsConfig     `yaml:"statistics"`
	Pagination     PaginationConfig     `yaml:"pagination"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}
