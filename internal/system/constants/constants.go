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

package constants

import "time"

const ApiBasePath = "/api/v1"
const UsersApiPath = "/users"
const DeploymentConfigFile = "/repository/conf/deployment.yaml"

type contextKey string

const TraceIDContextKey contextKey = "trace-id"
const TraceIDHeader = "X-Trace-Id"

// UniqueGroupKeyPrefix marks the synthetic key of a record that has no duplicates.
const UniqueGroupKeyPrefix = "unique:"

// EscapedGroupKeyPrefix is prepended to a signature that would otherwise read as a prefixed key.
const EscapedGroupKeyPrefix = "sig:"

// Lock key namespaces for write serialization.
const (
	GroupLockPrefix = "group:"
	UserLockPrefix  = "user:"
)

const DefaultActiveWindow = 30 * 24 * time.Hour

// Ordering options for the user listing.
const (
	OrderByLastUsed = "last_used"
	OrderByGroup    = "group"
)

// Child tables cascaded by merge and delete.
const (
	QuestionAnswersTable    = "question_answers"
	SummaryGenerationsTable = "summary_generations"
	TransactionsTable       = "transactions"
)

var ChildTables = []string{QuestionAnswersTable, SummaryGenerationsTable, TransactionsTable}

// Operations used for scope checks.
const (
	OperationReadUsers   = "users:read"
	OperationMergeUsers  = "users:merge"
	OperationDeleteUsers = "users:delete"
)

// Resource names used in request decode error messages.
const (
	MergeRequestResource = "merge request"
)

const MCPEndpointPath = "/mcp"

// MCPInitiator is recorded as the audit initiator of writes made through MCP tools.
const MCPInitiator = "mcp-agent"
