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

// Package commands_test contains unit tests for the generation pipeline
// commands. This file covers prompt assembly: the analysis context block,
// the task and limit substitutions, and the fence cleaner used on the model
// reply.
package commands_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// TestBuildAnalysisContext verifies the visual analysis block renders the
// scores and messages of both curation metrics.
func TestBuildAnalysisContext(t *testing.T) {
	analysis := &model.DesignAnalysis{
		Data: model.DesignData{
			IsAppropriate: true,
			Curation: model.DesignCuration{
				Clutter: model.DesignMetric{Score: 0.31, Message: "Composition is clean"},
				Balance: model.DesignMetric{Score: 0.72, Message: "Slightly right-heavy"},
			},
		},
	}

	out := commands.BuildAnalysisContext(analysis)

	assert.Contains(t, out, "Visual Technical Analysis Data:")
	assert.Contains(t, out, "Is Appropriate: true")
	assert.Contains(t, out, "Clutter Score: 0.31 (Composition is clean)")
	assert.Contains(t, out, "Balance Score: 0.72 (Slightly right-heavy)")
}

// TestBuildAnalysisContextNil verifies a missing analysis produces an empty
// block rather than a panic.
func TestBuildAnalysisContextNil(t *testing.T) {
	assert.Equal(t, "", commands.BuildAnalysisContext(nil))
}

// TestBuildAnalysisContextEmptyCuration verifies an analysis envelope without
// a curation payload produces no block, so the prompt never carries
// zero-valued scores.
func TestBuildAnalysisContextEmptyCuration(t *testing.T) {
	assert.Equal(t, "", commands.BuildAnalysisContext(&model.DesignAnalysis{}))

	prompt := commands.BuildPrompt(commands.PromptArgs{
		Tasks:           []string{"caption"},
		Language:        "id",
		MaxSongs:        5,
		MaxTopics:       8,
		AnalysisContext: commands.BuildAnalysisContext(&model.DesignAnalysis{Data: model.DesignData{IsAppropriate: true}}),
	})

	assert.NotContains(t, prompt, "Visual Technical Analysis Data:")
	assert.NotContains(t, prompt, "Clutter Score")
}

// TestBuildPrompt verifies the assembled instruction carries the task list,
// the target language, the array ceilings, and the quoted user intent.
func TestBuildPrompt(t *testing.T) {
	prompt := commands.BuildPrompt(commands.PromptArgs{
		Tasks:      []string{"caption", "songs"},
		Language:   "id",
		UserIntent: "soft launch kafe baru",
		MaxSongs:   3,
		MaxTopics:  7,
	})

	assert.True(t, strings.HasPrefix(prompt, "Act as an AI Social Media Specialist."))
	assert.Contains(t, prompt, "Perform these tasks: caption, songs.")
	assert.Contains(t, prompt, "Target Language: id.")
	assert.Contains(t, prompt, `User Intent: "soft launch kafe baru"`)
	assert.Contains(t, prompt, "(MAXIMUM 3 items)")
	assert.Contains(t, prompt, "(MAXIMUM 7 items)")
	assert.Contains(t, prompt, "Do not wrap in markdown. Just raw JSON.")
}

// TestBuildPromptWithoutIntent verifies the intent line is omitted entirely
// when the request carries none.
func TestBuildPromptWithoutIntent(t *testing.T) {
	prompt := commands.BuildPrompt(commands.PromptArgs{
		Tasks:     []string{"caption"},
		Language:  "en",
		MaxSongs:  5,
		MaxTopics: 8,
	})

	assert.NotContains(t, prompt, "User Intent")
}

// TestPromptBuilderSkipsWhenAnalysisAbsent verifies the command reports
// itself non-executable on the fallback path, which is what routes the chain
// around the model stages.
func TestPromptBuilderSkipsWhenAnalysisAbsent(t *testing.T) {
	builder := commands.NewPromptBuilder("build-prompt")

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.ParamRequest, &model.GenerateRequest{FileKey: "users/u1/a.jpg"})
	ctx.Add(commands.ParamAnalysis, model.AbsentAnalysis())

	assert.False(t, builder.IsExecutable(ctx))

	ctx.Add(commands.ParamAnalysis, model.PresentAnalysis(&model.DesignAnalysis{}))
	assert.True(t, builder.IsExecutable(ctx))
}

// TestCleanFencedJSON verifies fenced, noisy, and already-clean replies all
// reduce to bare JSON text.
func TestCleanFencedJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, commands.CleanFencedJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, commands.CleanFencedJSON("  {\"a\":1}  "))
	assert.Equal(t, "", commands.CleanFencedJSON("```json\n```"))
}
