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
// This file is central to the application's architecture: it initializes
// every client the server talks through and bundles them into a single
// ServiceClients container that is passed throughout the application.
//
// Logic Flow:
//  1. NewServiceClients is called at startup with the loaded Config.
//  2. It builds the S3 client and presigner, the Postgres pool, the
//     generative client, the analysis client, and the trends client.
//  3. It configures one quota-aware generative model per agent_models entry.
//  4. Services and workflows receive the container and pick what they need.
//
// Structs:
//   - ServiceClients: the dependency container.
//
// Functions:
//   - Close: releases pooled connections on shutdown.
//   - NewServiceClients: the factory that builds the container.
package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/genai"
)

// ServiceClients is the container for every external-service client. The
// struct is built once at startup and shared, a plain dependency injection
// container.
type ServiceClients struct {
	S3Client       *s3.Client                              // S3-compatible object storage client.
	S3Presigner    *s3.PresignClient                       // Presigner for upload and access URLs.
	GenAIClient    *genai.Client                           // Generative AI client.
	DB             *pgxpool.Pool                           // Postgres connection pool.
	AnalysisClient *AnalysisClient                         // Design analysis service client.
	TrendsClient   TrendsProvider                          // Trends upstream client.
	AgentModels    map[string]*QuotaAwareGenerativeAIModel // Configured generative models, keyed by a logical name.
}

// Close releases the pooled connections. The HTTP-based clients hold no
// persistent state and need no teardown.
func (c *ServiceClients) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}

// NewServiceClients initializes every external-service client from the
// provided configuration.
//
// Inputs:
//   - ctx: The root context for the application.
//   - config: The loaded application configuration, with secrets expanded.
//
// Outputs:
//   - *ServiceClients: The fully initialized container.
//   - error: An error if any client fails to initialize.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.Storage.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.Storage.AccessKeyID,
			config.Storage.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build storage config: %w", err)
	}

	// Path-style addressing keeps the signer compatible with MinIO and the
	// other non-AWS S3 endpoints used in deployment.
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Storage.Endpoint)
		}
		o.UsePathStyle = true
	})
	presigner := s3.NewPresignClient(s3Client)

	pool, err := pgxpool.New(ctx, config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GenAI.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	// Configure each agent model profile and wrap it with the rate limiter.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		generateConfig := &genai.GenerateContentConfig{
			Temperature:      genai.Ptr[float32](values.Temperature),
			TopP:             genai.Ptr[float32](values.TopP),
			TopK:             genai.Ptr[float32](values.TopK),
			MaxOutputTokens:  values.MaxTokens,
			SafetySettings:   DefaultSafetySettings,
			ResponseMIMEType: values.OutputFormat,
			Tools:            []*genai.Tool{},
		}
		if values.SystemInstructions != "" {
			generateConfig.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: values.SystemInstructions}},
			}
		}
		agentModels[amKey] = NewQuotaAwareModel(generateConfig, values.Model, gc.Models, values.RateLimit)
	}

	return &ServiceClients{
		S3Client:       s3Client,
		S3Presigner:    presigner,
		GenAIClient:    gc,
		DB:             pool,
		AnalysisClient: NewAnalysisClient(config.Analysis),
		TrendsClient:   NewGoogleTrendsClient(config.Trends),
		AgentModels:    agentModels,
	}, nil
}
