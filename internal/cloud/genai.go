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
// This file implements a decorator around the generative model handle that
// adds rate limiting. Gemini enforces per-minute quotas; without the limiter
// a burst of generation requests would convert straight into quota errors.
// Each request is attempted exactly once; a failure surfaces directly to the
// caller.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: wraps a model handle plus its generation
//     config with a token-bucket limiter.
//
// Functions:
//   - NewQuotaAwareModel: constructor for the wrapper.
//   - GenerateContent: the intercepted call that enforces the limiter.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GenerativeBackend is the slice of the genai API surface the wrapper needs.
// *genai.Models satisfies it.
type GenerativeBackend interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel decorates a generative model handle with a
// rate limiter. The generation config and model name travel with the wrapper
// so callers only ever pass content.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation parameters applied to every call.
	ModelName               string                       // The model this wrapper is bound to.
	ModelHandle             GenerativeBackend            // The underlying API surface.
	RateLimit               *rate.Limiter                // Token bucket guarding the quota.
}

// NewQuotaAwareModel wraps a model handle and its generation config with a
// limiter allowing requestsPerSecond calls, with the same burst size.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle GenerativeBackend, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		RateLimit:               rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent runs one generation call under the limiter. The call waits
// for quota, then issues a single attempt; any upstream error is returned
// as-is so the pipeline stage can surface it.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}
