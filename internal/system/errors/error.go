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

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

type ClientError struct {
	ErrorMessage
	StatusCode int
}

type ServerError struct {
	ErrorMessage
	StatusCode int
	Err        error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("[%s] %s %s", e.Code, e.Message, e.Description)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		StatusCode:   http.StatusInternalServerError,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// NewValidationError reports malformed filter, page or request arguments.
func NewValidationError(description string) *ClientError {
	return NewClientError(withDescription(VALIDATION_FAILED, description), http.StatusBadRequest)
}

// NewNotFoundError reports a user id or group key that no longer resolves to a record.
func NewNotFoundError(description string) *ClientError {
	return NewClientError(withDescription(NOT_FOUND, description), http.StatusNotFound)
}

// NewConflictError reports a write that targets a key already locked by another write.
func NewConflictError(description string) *ClientError {
	return NewClientError(withDescription(WRITE_CONFLICT, description), http.StatusConflict)
}

// NewCascadeFailure reports a merge or delete cascade that failed and was rolled back.
func NewCascadeFailure(description string, cause error) *ServerError {
	return NewServerError(withDescription(CASCADE_FAILURE, description), cause)
}

// NewStoreUnavailableError reports that the record store could not be reached.
func NewStoreUnavailableError(description string, cause error) *ServerError {
	serverError := NewServerError(withDescription(STORE_UNAVAILABLE, description), cause)
	serverError.StatusCode = http.StatusServiceUnavailable
	return serverError
}

func IsValidation(err error) bool {
	return hasCode(err, VALIDATION_FAILED.Code)
}

func IsNotFound(err error) bool {
	return hasCode(err, NOT_FOUND.Code)
}

func IsConflict(err error) bool {
	return hasCode(err, WRITE_CONFLICT.Code)
}

func IsCascadeFailure(err error) bool {
	return hasCode(err, CASCADE_FAILURE.Code)
}

func IsStoreUnavailable(err error) bool {
	return hasCode(err, STORE_UNAVAILABLE.Code)
}

// hasCode reports whether the outermost typed error in the chain carries the given code.
func hasCode(err error, code string) bool {
	var clientError *ClientError
	if errors.As(err, &clientError) {
		return clientError.Code == code
	}
	var serverError *ServerError
	for errors.As(err, &serverError) {
		if serverError.Code == code {
			return true
		}
		err = serverError.Err
	}
	return false
}

func withDescription(msg ErrorMessage, description string) ErrorMessage {
	msg.Description = description
	return msg
}
