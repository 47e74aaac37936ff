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
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/wso2/identity-user-resolution-service/internal/system/config"
	"github.com/wso2/identity-user-resolution-service/internal/system/constants"
	syscontext "github.com/wso2/identity-user-resolution-service/internal/system/context"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/provider"
	"github.com/wso2/identity-user-resolution-service/internal/system/database/scripts"
	"github.com/wso2/identity-user-resolution-service/internal/system/log"
	"github.com/wso2/identity-user-resolution-service/internal/system/managers"
	"github.com/wso2/identity-user-resolution-service/internal/system/metrics"
)

const shutdownTimeout = 15 * time.Second

func main() {
	serviceHome := getServiceHome()

	envFiles, err := filepath.Glob(filepath.Join(serviceHome, "config", "*.env"))
	if err == nil && len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	serviceConfig, err := config.LoadConfig(serviceHome, constants.DeploymentConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(serviceHome, serviceConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.InitWithWriter(serviceConfig.Log.LogLevel, serviceConfig.Log.Format, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	if serviceConfig.DataSource.Type != config.DataSourceMemory {
		if err := initSchema(); err != nil {
			logger.Fatal("Failed to initialize the database schema", log.Error(err))
		}
	}

	serverAddr := fmt.Sprintf("%s:%d", serviceConfig.Addr.Host, serviceConfig.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           syscontext.TraceMiddleware(enableCORS(initMultiplexer(), serviceConfig.Auth.CORSAllowedOrigins)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("WSO2 user resolution service starting", log.String("address", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve requests", log.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down user resolution service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
}

func initSchema() error {
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		return err
	}
	schema, ok := scripts.Schema[dbClient.DBType()]
	if !ok {
		return fmt.Errorf("no schema for database type %s", dbClient.DBType())
	}
	return dbClient.InitSchema(context.Background(), schema)
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, metrics.GetCollector())

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services.", log.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+constants.TraceIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", constants.TraceIDHeader)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getServiceHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("serviceHome", "", "Path to user resolution service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
