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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface for the content
// generation pipeline. This file defines the named context keys the
// commands share, so later stages can reach values that are not part of
// the chain's direct input/output piping.
package commands

// Context parameter keys shared across the generation pipeline.
const (
	// ParamRequest holds the *model.GenerateRequest for the run.
	ParamRequest = "__generate_request__"
	// ParamAccessURL holds the presigned GET URL of the source image.
	ParamAccessURL = "__access_url__"
	// ParamAnalysis holds the *model.AnalysisOutcome.
	ParamAnalysis = "__analysis_outcome__"
	// ParamPrompt holds the assembled prompt text.
	ParamPrompt = "__prompt_text__"
	// ParamImage holds the *ImagePayload of the fetched source image.
	ParamImage = "__image_payload__"
	// ParamRawResult holds the *model.RawGenerateResponse parsed from the
	// model reply. Absent when the model stage was skipped.
	ParamRawResult = "__raw_ai_result__"
	// ParamResult holds the final *model.GenerateResponse.
	ParamResult = "__generate_result__"
)
