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

// Package services contains the business logic for interacting with data
// sources. This file defines the GeneratorService, the entry point of the
// content generation feature. It seeds the pipeline context with the
// request, runs the chain, maps chain errors back to the known error kinds,
// applies the moderation gate, and hands the result to the detached
// persister before returning it.
//
// Two details matter here:
//   - The moderation gate fires only on an explicit inappropriate verdict
//     with high risk. The rejected result is still persisted first, so the
//     history keeps a record of what was blocked.
//   - Every completed run is persisted, fallback results included.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// GeneratorService runs the content generation pipeline for API requests.
type GeneratorService struct {
	Pipeline  cor.Command       // The assembled generation chain.
	Persister *HistoryPersister // Best-effort history writer.
}

// NewGeneratorService is the constructor for the GeneratorService.
func NewGeneratorService(pipeline cor.Command, persister *HistoryPersister) *GeneratorService {
	return &GeneratorService{Pipeline: pipeline, Persister: persister}
}

// Generate executes one content generation run.
//
// Inputs:
//   - ctx: The request context, used for cancellation and tracing.
//   - userID: The authenticated user the run belongs to.
//   - request: The generation request. Defaults are applied in place.
//
// Outputs:
//   - *model.GenerateResponse: The normalized result.
//   - error: One of the model error kinds, or a wrapped pipeline error.
func (s *GeneratorService) Generate(ctx context.Context, userID string, request *model.GenerateRequest) (*model.GenerateResponse, error) {
	startedAt := time.Now()
	slog.InfoContext(ctx, "starting content generation", "userId", userID, "fileKey", request.FileKey)

	request.Normalize()

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.ParamRequest, request)

	s.Pipeline.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for name, err := range chainCtx.GetErrors() {
			slog.ErrorContext(ctx, "content generation failed", "userId", userID, "command", name, "error", err)
			return nil, err
		}
	}

	result, ok := chainCtx.Get(commands.ParamResult).(*model.GenerateResponse)
	if !ok {
		return nil, model.ErrAIEmptyResponse
	}

	// The rejected run is persisted before the error goes out, so blocked
	// images remain visible in the user's history.
	if !result.Curation.IsAppropriate && result.Curation.Risk == "high" {
		s.Persister.Persist(userID, request.FileKey, result)
		slog.WarnContext(ctx, "content rejected by moderation", "userId", userID, "fileKey", request.FileKey)
		return nil, model.ErrModerationRejected
	}

	s.Persister.Persist(userID, request.FileKey, result)

	slog.InfoContext(ctx, "content generated successfully",
		"userId", userID,
		"durationMs", time.Since(startedAt).Milliseconds())
	return result, nil
}
