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

package service

import (
	"context"
	"time"

	"github.com/wso2/identity-user-resolution-service/internal/system/cache"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/breaker"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/lock"
	"github.com/wso2/identity-user-resolution-service/internal/system/metrics"
	"github.com/wso2/identity-user-resolution-service/internal/user/filter"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"github.com/wso2/identity-user-resolution-service/internal/user/signature"
	"github.com/wso2/identity-user-resolution-service/internal/user/store"
)

// UserServiceInterface is the admin facing user resolution service.
type UserServiceInterface interface {
	ListUsers(ctx context.Context, criteria model.FilterCriteria, page model.PageRequest) (*model.PageResult, error)
	GetStatistics(ctx context.Context, criteria *model.FilterCriteria) (*model.AggregateStatistics, error)
	GetUniqueUserCount(ctx context.Context, criteria *model.FilterCriteria) (int, error)
	GetStatisticsSummary(ctx context.Context, criteria *model.FilterCriteria) (*model.StatisticsResponse, error)
	GetDuplicateGroup(ctx context.Context, groupKey string) (*model.DuplicateGroup, error)
	MergeGroup(ctx context.Context, groupKey, survivorId, initiator string) (*model.MergeResult, error)
	DeleteUser(ctx context.Context, userId, initiator string) (*model.DeleteResult, error)
	Ping(ctx context.Context) error
}

// Options wires the collaborators of UserService. Only Store is required.
type Options struct {
	Store        store.UserStore
	Signatures   signature.Provider
	Locker       lock.Locker
	Breaker      *breaker.StoreBreaker
	Cache        *cache.Cache
	Metrics      *metrics.Collector
	ActiveWindow time.Duration
	Now          func() time.Time
}

// UserService is the default implementation of UserServiceInterface.
type UserService struct {
	store        store.UserStore
	signatures   signature.Provider
	locker       lock.Locker
	breaker      *breaker.StoreBreaker
	statsCache   *cache.Cache
	metrics      *metrics.Collector
	activeWindow time.Duration
	now          func() time.Time
}

func NewUserService(opts Options) *UserService {

	s := &UserService{
		store:        opts.Store,
		signatures:   opts.Signatures,
		locker:       opts.Locker,
		breaker:      opts.Breaker,
		statsCache:   opts.Cache,
		metrics:      opts.Metrics,
		activeWindow: opts.ActiveWindow,
		now:          opts.Now,
	}
	if s.signatures == nil {
		s.signatures = signature.NewStoredSignatureProvider()
	}
	if s.locker == nil {
		s.locker = lock.NewMemoryLock(30 * time.Second)
	}
	if s.statsCache == nil {
		s.statsCache = cache.NewCache(0)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector("user_resolution")
	}
	if s.activeWindow <= 0 {
		s.activeWindow = constants.DefaultActiveWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *UserService) Ping(ctx context.Context) error {
	return s.breaker.Execute("ping", func() error {
		return s.store.Ping(ctx)
	})
}

// loadMatching reads every record matching criteria. It is the single read path behind the listing, the statistics
// and the unique count.
func (s *UserService) loadMatching(ctx context.Context, criteria model.FilterCriteria, now time.Time) ([]model.UserRecord, error) {

	var records []model.UserRecord
	err := s.breaker.Execute("list users", func() error {
		defer s.metrics.ObserveStore("list_users", time.Now())
		var err error
		records, err = s.store.ListUsers(ctx, &criteria)
		return err
	})
	if err != nil {
		return nil, err
	}
	return filter.Apply(records, criteria, now), nil
}
