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
	"context"
	"fmt"
	"sync"

	"github.com/wso2/identity-user-resolution-service/internal/system/cache"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/breaker"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/lock"
	dbprovider "github.com/wso2/identity-user-resolution-service/internal/system/database/provider"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/system/metrics"
	"github.com/wso2/identity-user-resolution-service/internal/user/service"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

// UserProviderInterface defines the interface for the user provider.
type UserProviderInterface interface {
	GetUserService() (service.UserServiceInterface, error)
}

// UserProvider is the default implementation of the UserProviderInterface.
type UserProvider struct{}

var (
	serviceMu   sync.Mutex
	userService service.UserServiceInterface
)

// NewUserProvider creates a new instance of UserProvider.
func NewUserProvider() UserProviderInterface {

	return &UserProvider{}
}

// GetUserService returns the process wide user service, building it from the runtime configuration on first use.
func (up *UserProvider) GetUserService() (service.UserServiceInterface, error) {

	serviceMu.Lock()
	defer serviceMu.Unlock()

	if userService != nil {
		return userService, nil
	}
	svc, err := newUserService(config.GetRuntime().Config)
	if err != nil {
		return nil, err
	}
	userService = svc
	return userService, nil
}

// SetUserService replaces the process wide user service. Passing nil makes the next call rebuild it.
func SetUserService(svc service.UserServiceInterface) {

	serviceMu.Lock()
	defer serviceMu.Unlock()
	userService = svc
}

func newUserService(conf config.Config) (service.UserServiceInterface, error) {

	logger := log.GetLogger()

	userStore, err := newStore(conf.DataSource)
	if err != nil {
		return nil, err
	}
	locker, err := newLocker(conf.Lock)
	if err != nil {
		return nil, err
	}
	logger.Info(fmt.Sprintf("User service backed by '%s' store with '%s' locks", conf.DataSource.Type, conf.Lock.Backend))

	return service.NewUserService(service.Options{
		Store:        userStore,
		Locker:       locker,
		Breaker:      breaker.NewStoreBreaker("user-store", conf.CircuitBreaker),
		Cache:        cache.NewCache(conf.Statistics.CacheTTL()),
		Metrics:      metrics.GetCollector(),
		ActiveWindow: conf.Statistics.ActiveWindow(),
	}), nil
}

func newStore(dataSource config.DataSourceConfig) (store.UserStore, error) {

	if dataSource.Type == config.DataSourceMemory {
		return store.NewMemoryStore(), nil
	}
	dbClient, err := dbprovider.NewDBProvider().GetDBClient()
	if err != nil {
		return nil, err
	}
	return store.NewSQLStore(dbClient), nil
}

func newLocker(lockConfig config.LockConfig) (lock.Locker, error) {

	switch lockConfig.Backend {
	case config.LockBackendRedis:
		return lock.NewRedisLock(context.Background(), lockConfig.RedisAddr, lockConfig.RedisPassword,
			lockConfig.RedisDB, lockConfig.TTL())
	case config.LockBackendMemory, "":
		return lock.NewMemoryLock(lockConfig.TTL()), nil
	default:
		return nil, fmt.Errorf("unsupported lock backend: %s", lockConfig.Backend)
	}
}
