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

// Package workflow defines the high-level business logic orchestrations,
// combining commands into coherent pipelines. This file implements the
// content generation workflow.
package workflow

import (
	"time"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
)

// GenerationWorkflow orchestrates one content generation run as a Chain of
// Responsibility: resolve the image's access URL, request the design
// analysis, build the prompt, fetch the image, call the model, and
// normalize the result.
//
// The fallback behavior rides the chain's skip semantics: when the analysis
// outcome is Absent, the prompt, fetch, and model commands report themselves
// non-executable and the normalizer emits the fixed fallback result.
type GenerationWorkflow struct {
	cor.BaseCommand
	signer            commands.URLSigner
	analyzer          commands.Analyzer
	genaiModel        *cloud.QuotaAwareGenerativeAIModel
	imageFetchTimeout time.Duration
	chain             cor.Chain
}

// Execute runs the generation workflow by invoking the underlying chain.
//
// Inputs:
//   - context: The chain of responsibility context for this execution. The
//     caller must have placed the request under commands.ParamRequest.
func (g *GenerationWorkflow) Execute(context cor.Context) {
	g.chain.Execute(context)
}

// initializeChain builds the command sequence for this workflow. Each
// command is an atomic unit of work reading from and writing to the shared
// context.
func (g *GenerationWorkflow) initializeChain() {
	out := cor.NewBaseChain(g.GetName())

	// Step 1: Mint the presigned GET URL for the request's file key. The
	// URL feeds the analysis service, the image fetch, and the response.
	out.AddCommand(commands.NewAccessURLResolver("resolve-access-url", g.signer))

	// Step 2: Submit the image for design analysis. The tagged outcome
	// decides whether the model path or the fallback path runs.
	out.AddCommand(commands.NewDesignAnalyzer("design-analysis", g.analyzer))

	// Step 3: Assemble the strict-JSON prompt. Skipped when the analysis is
	// absent.
	out.AddCommand(commands.NewPromptBuilder("build-prompt"))

	// Step 4: Download the image bytes for the inline model part. Skipped
	// when the analysis is absent.
	out.AddCommand(commands.NewImageFetcher("fetch-image", g.imageFetchTimeout))

	// Step 5: Run the multi-modal generation request and parse the reply.
	// Skipped when the prompt or the image payload is missing.
	out.AddCommand(commands.NewModelCaller("call-model", g.genaiModel))

	// Step 6: Normalize into the final response. Always runs; emits the
	// fallback result when the model stages were skipped.
	out.AddCommand(commands.NewResultNormalizer("normalize-result"))

	g.chain = out
}

// NewGenerationWorkflow is the constructor for the GenerationWorkflow. It
// wires the commands with their dependencies and builds the chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - signer: The presigner for object access URLs.
//   - analyzer: The design analysis client.
//   - genaiModel: The rate-limited generative model to call.
//
// Returns:
//   - A pointer to a newly created and fully initialized GenerationWorkflow.
func NewGenerationWorkflow(
	config *cloud.Config,
	signer commands.URLSigner,
	analyzer commands.Analyzer,
	genaiModel *cloud.QuotaAwareGenerativeAIModel) *GenerationWorkflow {

	pipeline := &GenerationWorkflow{
		BaseCommand:       *cor.NewBaseCommand("content-generation-pipeline"),
		signer:            signer,
		analyzer:          analyzer,
		genaiModel:        genaiModel,
		imageFetchTimeout: time.Duration(config.ImageFetch.TimeoutSeconds) * time.Second,
	}
	pipeline.initializeChain()
	return pipeline
}
