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
// Responsibility (COR) pattern's Command interface. This file defines the
// model invocation step of the generation pipeline.
//
// Logic Flow:
//  1. The assembled prompt and the downloaded image bytes are sent to the
//     rate-limited generative model as one multi-modal request asking for
//     an application/json response. The request is made once; a failure
//     becomes this stage's error.
//  2. The reply text is stripped of any markdown code fencing the model
//     added despite the instructions.
//  3. The cleaned text is parsed into the partial result document. An empty
//     reply and an unparsable reply map to their own error kinds; the
//     unparsable case carries a short snippet of the offending text for
//     the logs.
package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// parseSnippetLimit caps how much of an unparsable model reply is carried in
// the error and the log line.
const parseSnippetLimit = 200

// ModelCaller is a command that runs the multi-modal generation request and
// parses the JSON reply.
type ModelCaller struct {
	cor.BaseCommand
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel
	geminiInputTokenCounter  metric.Int64Counter
	geminiOutputTokenCounter metric.Int64Counter
}

// NewModelCaller is the constructor for the ModelCaller command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generativeAIModel: The rate-limited wrapper for the generative model.
//
// Outputs:
//   - *ModelCaller: A pointer to the newly instantiated command, including
//     initialized telemetry counters.
func NewModelCaller(name string, generativeAIModel *cloud.QuotaAwareGenerativeAIModel) *ModelCaller {
	out := &ModelCaller{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
	}
	out.InputParamName = ParamPrompt

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))

	return out
}

// IsExecutable requires both the prompt and the image payload, which only
// exist when the analysis-present path is active.
func (m *ModelCaller) IsExecutable(context cor.Context) bool {
	return m.BaseCommand.IsExecutable(context) && context.Get(ParamImage) != nil
}

// Execute sends the request and stores the parsed partial result under
// ParamRawResult.
func (m *ModelCaller) Execute(context cor.Context) {
	prompt := context.Get(m.GetInputParam()).(string)
	image := context.Get(ParamImage).(*ImagePayload)

	contents := cloud.NewInlineImagePart(prompt, image.MIMEType, image.Data)

	out, err := cloud.GenerateMultiModalResponse(
		context.GetContext(),
		m.geminiInputTokenCounter,
		m.geminiOutputTokenCounter,
		m.generativeAIModel,
		contents)
	if err != nil {
		m.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(m.GetName(), fmt.Errorf("generation request failed: %w", err))
		return
	}

	cleaned := CleanFencedJSON(out)
	if cleaned == "" {
		m.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(m.GetName(), model.ErrAIEmptyResponse)
		return
	}

	raw := &model.RawGenerateResponse{}
	if err := json.Unmarshal([]byte(cleaned), raw); err != nil {
		snippet := cleaned
		if len(snippet) > parseSnippetLimit {
			snippet = snippet[:parseSnippetLimit]
		}
		slog.ErrorContext(context.GetContext(), "failed to parse AI JSON", "textSnippet", snippet)
		m.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(m.GetName(), fmt.Errorf("%w: %s", model.ErrAIResponseUnparsable, snippet))
		return
	}

	m.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamRawResult, raw)
	context.Add(m.GetOutputParam(), raw)
}

// CleanFencedJSON strips the markdown code fencing models habitually wrap
// around JSON output, then trims surrounding whitespace.
func CleanFencedJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
