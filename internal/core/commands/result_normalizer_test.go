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
// commands. This file covers the normalizer: default filling, array
// truncation, and the fixed fallback result.
package commands_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
	test "github.com/kontenlab/konten-backend/internal/testutil"
)

// TestFallbackResult verifies the fixed shape of the fallback: appropriate
// low-risk curation carrying the fallback note, empty caption, no
// recommendations, and a neutral engagement score.
func TestFallbackResult(t *testing.T) {
	out := commands.FallbackResult("id")

	assert.True(t, out.Curation.IsAppropriate)
	assert.Equal(t, "low", out.Curation.Risk)
	assert.Equal(t, commands.FallbackNotes, out.Curation.Notes)
	assert.Empty(t, out.Curation.Labels)
	assert.Equal(t, "", out.Caption.Text)
	assert.Empty(t, out.Songs)
	assert.Empty(t, out.Topics)
	assert.Equal(t, 0.5, out.Engagement.EstimatedScore)
	assert.Equal(t, "id", out.Meta.Language)
}

// TestNormalizeFillsDefaults verifies that a completely empty model document
// normalizes to the neutral defaults with non-nil arrays everywhere.
func TestNormalizeFillsDefaults(t *testing.T) {
	out := commands.Normalize(&model.RawGenerateResponse{}, "id", 5, 8)

	assert.True(t, out.Curation.IsAppropriate)
	assert.Equal(t, "low", out.Curation.Risk)
	assert.Equal(t, "", out.Curation.Notes)
	assert.NotNil(t, out.Curation.Labels)
	assert.NotNil(t, out.Caption.Alternatives)
	assert.NotNil(t, out.Songs)
	assert.NotNil(t, out.Topics)
	assert.Equal(t, 0.5, out.Engagement.EstimatedScore)
	assert.NotNil(t, out.Engagement.Drivers)
	assert.NotNil(t, out.Engagement.Suggestions)
	assert.Equal(t, "id", out.Meta.Language)
}

// TestNormalizeKeepsModelValues verifies explicit model values survive,
// including an explicit false for isAppropriate.
func TestNormalizeKeepsModelValues(t *testing.T) {
	raw := &model.RawGenerateResponse{}
	err := json.Unmarshal([]byte(commands.CleanFencedJSON(test.GetTestModelReplyText())), raw)
	assert.NoError(t, err)

	out := commands.Normalize(raw, "id", 5, 8)

	assert.Equal(t, "Pagi yang sempurna dimulai dari secangkir kopi.", out.Caption.Text)
	assert.Len(t, out.Caption.Alternatives, 2)
	assert.Equal(t, []string{"food", "coffee"}, out.Curation.Labels)
	assert.Equal(t, 0.74, out.Engagement.EstimatedScore)
	assert.Len(t, out.Songs, 2)
	assert.Len(t, out.Topics, 2)
}

// TestNormalizeRejectionSurvives verifies an inappropriate verdict is not
// overwritten by the defaults.
func TestNormalizeRejectionSurvives(t *testing.T) {
	inappropriate := false
	risk := "high"
	raw := &model.RawGenerateResponse{
		Curation: &model.RawCuration{IsAppropriate: &inappropriate, Risk: &risk},
	}

	out := commands.Normalize(raw, "id", 5, 8)

	assert.False(t, out.Curation.IsAppropriate)
	assert.Equal(t, "high", out.Curation.Risk)
}

// TestNormalizeTruncatesInOrder verifies the recommendation arrays are cut
// to the ceilings while preserving the model's relative order.
func TestNormalizeTruncatesInOrder(t *testing.T) {
	raw := &model.RawGenerateResponse{
		Songs: []model.Song{
			{Title: "one"}, {Title: "two"}, {Title: "three"}, {Title: "four"}, {Title: "five"},
		},
		Topics: []model.Topic{
			{Topic: "#a"}, {Topic: "#b"}, {Topic: "#c"},
		},
	}

	out := commands.Normalize(raw, "id", 2, 2)

	assert.Equal(t, []model.Song{{Title: "one"}, {Title: "two"}}, out.Songs)
	assert.Equal(t, []model.Topic{{Topic: "#a"}, {Topic: "#b"}}, out.Topics)
}

// TestResultNormalizerAppliesRequestLimits verifies a run whose model reply
// overflows the requested song ceiling comes back truncated to it, in the
// model's original order.
func TestResultNormalizerAppliesRequestLimits(t *testing.T) {
	normalizer := commands.NewResultNormalizer("normalize-result")

	raw := &model.RawGenerateResponse{
		Songs: []model.Song{
			{Title: "one"}, {Title: "two"}, {Title: "three"}, {Title: "four"}, {Title: "five"},
		},
	}

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.ParamRequest, &model.GenerateRequest{
		FileKey: "k1",
		Tasks:   []string{"caption"},
		Limits:  &model.GenerateLimits{MaxSongs: 2},
	})
	ctx.Add(commands.ParamAccessURL, "https://bucket.example/k1?sig=x")
	ctx.Add(commands.ParamRawResult, raw)

	normalizer.Execute(ctx)

	result, ok := ctx.Get(commands.ParamResult).(*model.GenerateResponse)
	assert.True(t, ok)
	assert.Equal(t, []model.Song{{Title: "one"}, {Title: "two"}}, result.Songs)
}

// TestResultNormalizerFallbackExecution verifies the command emits the
// fallback result when the chain never produced a model document, and stamps
// the access URL and generation time.
func TestResultNormalizerFallbackExecution(t *testing.T) {
	normalizer := commands.NewResultNormalizer("normalize-result")

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.ParamRequest, &model.GenerateRequest{FileKey: "users/u1/a.jpg"})
	ctx.Add(commands.ParamAccessURL, "https://bucket.example/users/u1/a.jpg?sig=x")

	normalizer.Execute(ctx)

	result, ok := ctx.Get(commands.ParamResult).(*model.GenerateResponse)
	assert.True(t, ok)
	assert.Equal(t, "https://bucket.example/users/u1/a.jpg?sig=x", result.ImageURL)
	assert.Equal(t, commands.FallbackNotes, result.Curation.Notes)
	assert.NotEmpty(t, result.Meta.GeneratedAt)
	assert.False(t, ctx.HasErrors())
}
