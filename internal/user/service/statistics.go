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

	"github.com/wso2/identity-user-resolution-service/internal/user/filter"
	"github.com/wso2/identity-user-resolution-service/internal/user/grouping"
	"github.com/wso2/identity-user-resolution-service/internal/user/model"
	"golang.org/x/sync/errgroup"
)

const (
	statisticsCachePrefix  = "statistics:"
	uniqueCountCachePrefix = "unique-count:"
	summaryCachePrefix     = "summary:"
)

// GetStatistics counts over every record matching criteria. A nil criteria means all records.
func (s *UserService) GetStatistics(ctx context.Context, criteria *model.FilterCriteria) (*model.AggregateStatistics, error) {

	f := derefCriteria(criteria)
	if err := filter.Validate(f); err != nil {
		return nil, err
	}

	key := statisticsCachePrefix + filter.CanonicalKey(f)
	if cached, ok := s.statsCache.Get(key); ok {
		s.metrics.CacheHits.Inc()
		stats := cached.(model.AggregateStatistics)
		return &stats, nil
	}
	s.metrics.CacheMisses.Inc()
	generation := s.statsCache.Generation()

	now := s.now()
	records, err := s.loadMatching(ctx, f, now)
	if err != nil {
		return nil, err
	}
	stats := s.aggregate(records, now)

	s.statsCache.SetIfGeneration(key, stats, generation)
	return &stats, nil
}

// GetUniqueUserCount counts the distinct duplicate groups among the records matching criteria.
func (s *UserService) GetUniqueUserCount(ctx context.Context, criteria *model.FilterCriteria) (int, error) {

	f := derefCriteria(criteria)
	if err := filter.Validate(f); err != nil {
		return 0, err
	}

	key := uniqueCountCachePrefix + filter.CanonicalKey(f)
	if cached, ok := s.statsCache.Get(key); ok {
		s.metrics.CacheHits.Inc()
		return cached.(int), nil
	}
	s.metrics.CacheMisses.Inc()
	generation := s.statsCache.Generation()

	records, err := s.loadMatching(ctx, f, s.now())
	if err != nil {
		return 0, err
	}
	unique := s.uniqueCount(records)

	s.statsCache.SetIfGeneration(key, unique, generation)
	return unique, nil
}

// GetStatisticsSummary reads the matching records once and derives both the statistics and the unique count from
// that one snapshot, so a write landing mid-request cannot make the two disagree.
func (s *UserService) GetStatisticsSummary(ctx context.Context, criteria *model.FilterCriteria) (*model.StatisticsResponse, error) {

	f := derefCriteria(criteria)
	if err := filter.Validate(f); err != nil {
		return nil, err
	}

	key := summaryCachePrefix + filter.CanonicalKey(f)
	if cached, ok := s.statsCache.Get(key); ok {
		s.metrics.CacheHits.Inc()
		summary := cached.(model.StatisticsResponse)
		return &summary, nil
	}
	s.metrics.CacheMisses.Inc()
	generation := s.statsCache.Generation()

	now := s.now()
	records, err := s.loadMatching(ctx, f, now)
	if err != nil {
		return nil, err
	}

	var summary model.StatisticsResponse
	var g errgroup.Group
	g.Go(func() error {
		summary.Statistics = s.aggregate(records, now)
		return nil
	})
	g.Go(func() error {
		summary.UniqueUserCount = s.uniqueCount(records)
		return nil
	})
	_ = g.Wait()

	s.statsCache.SetIfGeneration(key, summary, generation)
	return &summary, nil
}

func (s *UserService) aggregate(records []model.UserRecord, now time.Time) model.AggregateStatistics {
	stats := model.AggregateStatistics{TotalUsers: len(records)}
	activeSince := now.Add(-s.activeWindow)
	for _, record := range records {
		if record.IsAnonymous {
			stats.AnonymousUsers++
		}
		if isActive(record, activeSince) {
			stats.ActiveUsers++
		}
		stats.TotalPaidGenerations += record.TotalPaidGeneration
		stats.TotalSummaryGenerations += record.TotalSummaryGeneration
	}
	return stats
}

func (s *UserService) uniqueCount(records []model.UserRecord) int {
	keys := make(map[model.DuplicateGroupKey]struct{})
	for _, assignment := range grouping.Group(records, s.signatures) {
		keys[assignment.Key] = struct{}{}
	}
	return len(keys)
}

// isActive treats a record used exactly at the start of the window as active.
func isActive(record model.UserRecord, activeSince time.Time) bool {
	return record.LastUsed != nil && !record.LastUsed.Before(activeSince)
}

func derefCriteria(criteria *model.FilterCriteria) model.FilterCriteria {
	if criteria == nil {
		return model.FilterCriteria{}
	}
	return *criteria
}
