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

// Package cloud provides the external-service clients and configuration.
// This file contains general-purpose utility functions that support the
// package: the hierarchical configuration loader, secret expansion, and the
// resilient call helper for the generative model.
//
// Functions:
//   - fileExists: A simple helper to check if a file exists.
//   - LoadConfig: Implements a hierarchical configuration loader. It first
//     reads a base configuration file and then overwrites values with a
//     second, environment-specific file (e.g., .env.local.toml,
//     .env.test.toml). The environment is determined by an environment
//     variable.
//   - GenerateMultiModalResponse: A wrapper for making one call to the
//     generative model and recording token-usage metrics through
//     OpenTelemetry.
//   - NewTextPart, NewInlineImagePart: Factory helpers for building
//     multi-modal prompt parts.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

// Package constants, primarily for configuration loading and API interaction
// policies.
const (
	ConfigFileBaseName  = ".env"                 // The base name for configuration files (e.g., ".env.toml").
	ConfigFileExtension = ".toml"                // The file extension for configuration files.
	ConfigSeparator     = "."                    // The separator used in config file names (e.g., ".env.local.toml").
	EnvConfigFilePrefix = "KONTEN_CONFIG_PREFIX" // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "KONTEN_RUNTIME"       // The environment variable for specifying the runtime context (e.g., "local", "test", "prod").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides a hierarchical configuration loading mechanism. It
// first loads a base configuration file and then overwrites its values with
// an environment-specific configuration file. The directory and environment
// are taken from the KONTEN_CONFIG_PREFIX and KONTEN_RUNTIME variables.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct that will be
//     populated from the TOML files.
func LoadConfig(baseConfig interface{}) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	// Default to "test" when no runtime is named, which keeps unit tests
	// self-configuring.
	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		_, err := toml.DecodeFile(baseConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	// Values in the environment-specific file overwrite the base config.
	if fileExists(envConfigFileName) {
		_, err := toml.DecodeFile(envConfigFileName, baseConfig)
		if err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}

// ExpandSecrets resolves ${ENV_VAR} references in the environment-dependent
// config values, so the TOML files can be committed without credentials or
// deployment endpoints in them. An unset variable expands to the empty
// string, which for Analysis.BaseURL is what marks the service unconfigured.
func (c *Config) ExpandSecrets() {
	c.Storage.Endpoint = os.ExpandEnv(c.Storage.Endpoint)
	c.Storage.AccessKeyID = os.ExpandEnv(c.Storage.AccessKeyID)
	c.Storage.SecretAccessKey = os.ExpandEnv(c.Storage.SecretAccessKey)
	c.Database.URL = os.ExpandEnv(c.Database.URL)
	c.Analysis.BaseURL = os.ExpandEnv(c.Analysis.BaseURL)
	c.Analysis.APIKey = os.ExpandEnv(c.Analysis.APIKey)
	c.Auth.JWTSecret = os.ExpandEnv(c.Auth.JWTSecret)
	c.GenAI.APIKey = os.ExpandEnv(c.GenAI.APIKey)
}

// GenerateMultiModalResponse is a helper function for executing one
// multi-modal request against a generative model. The request is attempted
// exactly once; any upstream failure is returned to the caller unchanged so
// the pipeline stage owns how it surfaces.
//
// Inputs:
//   - ctx: The context for the request, which controls cancellation and tracing.
//   - inputTokenCounter: An OpenTelemetry counter for prompt tokens used.
//   - outputTokenCounter: An OpenTelemetry counter for response tokens generated.
//   - model: The rate-limited, quota-aware generative model to use.
//   - content: The multi-modal prompt (text and image parts).
//
// Outputs:
//   - string: The concatenated text content from the model's response.
//   - error: The upstream error when the single attempt fails.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content) (value string, err error) {
	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}

	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	value = ""
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				value += fmt.Sprint(part.Text)
			}
		}
	}
	return value, nil
}

// NewTextPart is a factory delegate for creating a text-only content slice.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

// NewInlineImagePart builds a content slice carrying the prompt text plus
// the image bytes inline, which is the shape the generation pipeline sends.
func NewInlineImagePart(prompt string, mimeType string, data []byte) []*genai.Content {
	return []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}
}
