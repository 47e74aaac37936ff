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

package breaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/client"
	errors2 "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

// StoreBreaker guards calls into the record store. Only connectivity failures count against the breaker, and once
// it opens calls fail fast with a StoreUnavailableError instead of waiting on a dead store.
type StoreBreaker struct {
	cb      *gobreaker.CircuitBreaker
	enabled bool
}

// NewStoreBreaker builds a breaker from the circuit_breaker configuration section.
func NewStoreBreaker(name string, cfg config.CircuitBreakerConfig) *StoreBreaker {

	logger := log.GetLogger()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(fmt.Sprintf("Store circuit breaker '%s' changed from %v to %v", name, from, to))
		},
		IsSuccessful: func(err error) bool {
			return !client.IsConnectivityError(err) && !errors2.IsStoreUnavailable(err)
		},
	})
	return &StoreBreaker{cb: cb, enabled: cfg.Enabled}
}

// Execute runs fn through the breaker. Connectivity errors returned by fn are converted to StoreUnavailableError,
// every other error is returned unchanged.
func (b *StoreBreaker) Execute(operation string, fn func() error) error {

	if b == nil || !b.enabled {
		return classify(operation, fn())
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors2.NewStoreUnavailableError(
			fmt.Sprintf("Record store circuit is open, rejected %s.", operation), err)
	}
	return classify(operation, err)
}

// State exposes the breaker state for readiness reporting.
func (b *StoreBreaker) State() string {
	if b == nil || !b.enabled {
		return "disabled"
	}
	return b.cb.State().String()
}

func classify(operation string, err error) error {
	if err == nil || errors2.IsStoreUnavailable(err) {
		return err
	}
	if client.IsConnectivityError(err) {
		return errors2.NewStoreUnavailableError(fmt.Sprintf("Record store unreachable during %s.", operation), err)
	}
	return err
}
