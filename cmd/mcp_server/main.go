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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	syscontext "github.com/wso2/identity-user-resolution-service/internal/system/context"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/system/mcp"
	"github.com/wso2/identity-user-resolution-service/internal/user/provider"
)

const defaultMCPAddr = ":8081"

func main() {
	serviceHome := resolveServiceHome()

	envFiles, err := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	serviceConfig, err := config.LoadConfig(serviceHome, constants.DeploymentConfigFile)
	if err != nil {
		fmt.Println("Failed to load configuration. ", err)
		os.Exit(1)
	}
	// Initialize runtime configurations
	if err := config.InitializeRuntime(serviceHome, serviceConfig); err != nil {
		fmt.Println("Failed to initialize runtime.", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := log.InitWithWriter(serviceConfig.Log.LogLevel, serviceConfig.Log.Format, os.Stdout); err != nil {
		fmt.Println("Failed to initialize logger.", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	userService, err := provider.NewUserProvider().GetUserService()
	if err != nil {
		logger.Fatal("Failed to initialize the user service", log.Error(err))
	}

	// Register MCP routes (/mcp)
	mux := http.NewServeMux()
	mcp.Initialize(mux, userService)

	addr := os.Getenv("MCP_ADDR")
	if addr == "" {
		addr = defaultMCPAddr
	}
	server := &http.Server{Addr: addr, Handler: syscontext.TraceMiddleware(mux), ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		logger.Info(fmt.Sprintf("User resolution MCP server listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start MCP server", log.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

// resolveServiceHome parses flags and determines the service home directory.
func resolveServiceHome() string {
	homeFlag := flag.String("serviceHome", "", "Path to user resolution service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Println("Failed to get current working directory.", err)
		os.Exit(1)
	}
	return dir
}
