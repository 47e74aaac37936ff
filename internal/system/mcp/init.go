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

package mcp

import (
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	"github.com/wso2/identity-user-resolution-service/internal/system/security"
	"github.com/wso2/identity-user-resolution-service/internal/system/utils"
	"github.com/wso2/identity-user-resolution-service/internal/user/service"
)

// Initialize builds the MCP server over the user service and registers its streamable HTTP routes with mux. Every
// MCP request needs a token that grants the merge operation, since the tool set includes writes.
func Initialize(mux *http.ServeMux, userService service.UserServiceInterface) {
	mcpServer := newServer(userService)

	httpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return mcpServer.getMCPServer()
	}, nil)
	protected := requireAdmin(httpHandler)

	mux.Handle(constants.MCPEndpointPath, protected)
	mux.Handle(constants.MCPEndpointPath+"/", protected)
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := security.AuthnAndAuthz(r, constants.OperationMergeUsers); err != nil {
			utils.HandleError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
