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

package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	customerrors "github.com/wso2/identity-user-resolution-service/internal/system/errors"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
)

// HandleError writes the HTTP error response for err. Client errors carry their own status and message. Server
// errors are logged and reported with their code only, so store internals never reach the caller.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {

	traceID := traceIDOf(r)
	w.Header().Set("Content-Type", "application/json")

	var clientError *customerrors.ClientError
	if errors.As(err, &clientError) {
		msg := clientError.ErrorMessage
		msg.TraceID = traceID
		w.WriteHeader(clientError.StatusCode)
		_ = json.NewEncoder(w).Encode(msg)
		return
	}

	logger := log.GetLogger().WithTraceID(traceID)
	var serverError *customerrors.ServerError
	if errors.As(err, &serverError) {
		logger.Error(err.Error())
		status := serverError.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(customerrors.ErrorMessage{
			Code:        serverError.Code,
			Message:     serverError.Message,
			Description: serverError.Description,
			TraceID:     traceID,
		})
		return
	}

	logger.Error("Unhandled error while serving request", log.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "Internal server error",
		"trace_id": traceID,
	})
}

// RespondJSON writes body as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func traceIDOf(r *http.Request) string {
	if r == nil {
		return ""
	}
	return traceIDFromContext(r.Context())
}

func traceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(constants.TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}
