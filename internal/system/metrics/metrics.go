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

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds the Prometheus metrics of the service on a private registry.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Write outcomes are labelled success, conflict, not_found or failure.
	Merges         *prometheus.CounterVec
	UsersAbsorbed  prometheus.Counter
	ChildrenMoved  *prometheus.CounterVec
	Deletes        *prometheus.CounterVec
	ChildrenPurged *prometheus.CounterVec

	StoreDuration *prometheus.HistogramVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

// GetCollector returns the process wide collector, creating it on first use.
func GetCollector() *Collector {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector == nil {
		globalCollector = NewCollector("user_resolution")
	}
	return globalCollector
}

// NewCollector creates a collector with its own registry. Tests use it directly to avoid sharing counters.
func NewCollector(namespace string) *Collector {

	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Duplicate group merges by outcome",
		}, []string{"outcome"}),
		UsersAbsorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_absorbed_total",
			Help:      "User records absorbed into a survivor by merges",
		}),
		ChildrenMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_rows_reassigned_total",
			Help:      "Child rows reassigned to a survivor by merges",
		}, []string{"table"}),
		Deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "User deletions by outcome",
		}, []string{"outcome"}),
		ChildrenPurged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "child_rows_deleted_total",
			Help:      "Child rows removed by user deletions",
		}, []string{"table"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Record store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statistics_cache_hits_total",
			Help:      "Statistics served from cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statistics_cache_misses_total",
			Help:      "Statistics computed from the store",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests, c.HTTPDuration,
		c.Merges, c.UsersAbsorbed, c.ChildrenMoved,
		c.Deletes, c.ChildrenPurged,
		c.StoreDuration, c.CacheHits, c.CacheMisses,
	)
	return c
}

// ObserveStore records how long a store operation took.
func (c *Collector) ObserveStore(operation string, start time.Time) {
	c.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
