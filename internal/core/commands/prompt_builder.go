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
// prompt assembly step of the generation pipeline. The command is pure: it
// folds the analysis context, the optional user intent, the task list, the
// target language, and the array ceilings into the strict-JSON instruction
// the model is held to. It only runs when a design analysis is Present; on
// the fallback path there is nothing to prompt for.
package commands

import (
	"fmt"
	"strings"

	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// PromptBuilder is a command that assembles the generation prompt.
type PromptBuilder struct {
	cor.BaseCommand
}

// NewPromptBuilder is the constructor for the PromptBuilder command.
func NewPromptBuilder(name string) *PromptBuilder {
	out := &PromptBuilder{BaseCommand: *cor.NewBaseCommand(name)}
	out.InputParamName = ParamRequest
	return out
}

// IsExecutable gates the command on a Present analysis outcome. When the
// analysis is Absent the chain skips this step and the model stages after
// it, which is what routes the run onto the fallback result.
func (p *PromptBuilder) IsExecutable(context cor.Context) bool {
	if !p.BaseCommand.IsExecutable(context) {
		return false
	}
	outcome, ok := context.Get(ParamAnalysis).(*model.AnalysisOutcome)
	return ok && outcome.Present
}

// Execute builds the prompt and stores it under ParamPrompt.
func (p *PromptBuilder) Execute(context cor.Context) {
	request := context.Get(p.GetInputParam()).(*model.GenerateRequest)
	outcome := context.Get(ParamAnalysis).(*model.AnalysisOutcome)

	maxSongs, maxTopics := request.Normalize()

	userIntent := ""
	if request.Context != nil {
		userIntent = request.Context.PostIntent
	}

	prompt := BuildPrompt(PromptArgs{
		Tasks:           request.Tasks,
		Language:        request.Language,
		UserIntent:      userIntent,
		MaxSongs:        maxSongs,
		MaxTopics:       maxTopics,
		AnalysisContext: BuildAnalysisContext(outcome.Analysis),
	})

	p.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamPrompt, prompt)
	context.Add(p.GetOutputParam(), prompt)
}

// PromptArgs carries the inputs of BuildPrompt.
type PromptArgs struct {
	Tasks           []string
	Language        string
	UserIntent      string
	MaxSongs        int
	MaxTopics       int
	AnalysisContext string
}

// BuildAnalysisContext renders the visual analysis block embedded in the
// prompt. An analysis without a curation payload yields an empty block, so a
// prompt never carries a grid of zero scores.
func BuildAnalysisContext(analysis *model.DesignAnalysis) string {
	if analysis == nil || analysis.Data.Curation == (model.DesignCuration{}) {
		return ""
	}
	clutter := analysis.Data.Curation.Clutter
	balance := analysis.Data.Curation.Balance
	return fmt.Sprintf(`
Visual Technical Analysis Data:
- Is Appropriate: %t
- Clutter Score: %g (%s)
- Balance Score: %g (%s)
Use this data to tailor the caption and music vibe.
`, analysis.Data.IsAppropriate, clutter.Score, clutter.Message, balance.Score, balance.Message)
}

// BuildPrompt assembles the full model instruction, ending with the strict
// JSON schema the response is parsed against.
func BuildPrompt(args PromptArgs) string {
	intent := ""
	if args.UserIntent != "" {
		intent = fmt.Sprintf("\nUser Intent: %q", args.UserIntent)
	}

	prompt := fmt.Sprintf(`
Act as an AI Social Media Specialist.
Analyze the provided image.
%s%s

Perform these tasks: %s.
Target Language: %s.

STRICTLY output a JSON object matching this schema.
Respect the array limits defined below:
{
  "curation": {
    "isAppropriate": boolean,
    "labels": ["string"],
    "risk": "low" | "medium" | "high",
    "notes": "string (Moderation notes)"
  },
  "caption": {
    "text": "string (engaging caption)",
    "alternatives": ["string"]
  },
  "songs": [ {"title": "string", "artist": "string", "reason": "string"} ] (MAXIMUM %d items),
  "topics": [ {"topic": "string", "confidence": number} ] (MAXIMUM %d items),
  "engagement": {
    "estimatedScore": number (0.0 - 1.0),
    "drivers": ["string"],
    "suggestions": ["string"]
  }
}
Do not wrap in markdown. Just raw JSON.
`, args.AnalysisContext, intent, strings.Join(args.Tasks, ", "), args.Language, args.MaxSongs, args.MaxTopics)

	return strings.TrimSpace(prompt)
}
