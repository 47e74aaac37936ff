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

const errorPrefix = "USR-"

var (
	// Server error codes

	CASCADE_FAILURE = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Cascade failed and was rolled back.",
	}

	STORE_UNAVAILABLE = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "User record store is unavailable.",
	}

	EXECUTE_QUERY = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while executing the query.",
	}

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Unable to initialize database client.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Write lock acquisition failed.",
	}

	LOCK_RELEASE = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while releasing the write lock.",
	}

	SCAN_ROW = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while reading a user record.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Parsing token failed.",
	}

	// Client error codes

	VALIDATION_FAILED = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid request arguments.",
	}

	NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Requested record not found.",
	}

	WRITE_CONFLICT = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Another write is in progress for this record.",
	}

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11006",
		Message:     "Forbidden",
		Description: "You do not have permission to access this resource.",
	}
)
