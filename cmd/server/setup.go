// Copyright 2025 Kontenlab
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"log"
	"os"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/services"
	"github.com/kontenlab/konten-backend/internal/core/workflow"
	"github.com/kontenlab/konten-backend/internal/store"
)

// GeneratorModelName is the agent_models profile the generation pipeline
// runs on.
const GeneratorModelName = "content-flash"

// StateManager holds the shared components for the application.
type StateManager struct {
	config           *cloud.Config
	cloud            *cloud.ServiceClients
	storageService   *services.StorageService
	historyService   *services.HistoryService
	generatorService *services.GeneratorService
	trendsService    *services.TrendsService
	persister        *services.HistoryPersister
}

var state = &StateManager{}

// SetupOS fills in the config location defaults when the environment does
// not provide them.
func SetupOS() (err error) {
	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

// GetConfig loads the hierarchical TOML configuration once and expands the
// secret references against the environment.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		config.ExpandSecrets()
		state.config = config
	}
	return state.config
}

// InitState initializes the external-service clients, applies the database
// schema, and wires the service layer.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	if err := store.Migrate(config.Database.URL); err != nil {
		panic(err)
	}

	state.storageService = services.NewStorageService(config, cloudClients.S3Presigner)
	state.historyService = services.NewHistoryService(cloudClients.DB, state.storageService)
	state.persister = services.NewHistoryPersister(state.historyService.Save)

	generatorModel, ok := cloudClients.AgentModels[GeneratorModelName]
	if !ok {
		log.Fatalf("agent model %q is not configured\n", GeneratorModelName)
	}

	pipeline := workflow.NewGenerationWorkflow(
		config,
		state.storageService,
		cloudClients.AnalysisClient,
		generatorModel)
	state.generatorService = services.NewGeneratorService(pipeline, state.persister)

	state.trendsService = services.NewTrendsService(config, cloudClients.TrendsClient)
}
