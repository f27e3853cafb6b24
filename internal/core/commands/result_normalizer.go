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
// final step of the generation pipeline: normalization.
//
// The normalizer always runs. When the model stages were skipped (analysis
// Absent) it emits the fixed fallback result. Otherwise it merges the
// model's partial document with defaults so every field of the response is
// populated, truncates the recommendation arrays to the request ceilings,
// and stamps the meta block.
package commands

import (
	"time"

	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// FallbackNotes is the curation note of the fallback result emitted when no
// design analysis is available.
const FallbackNotes = "Design analysis unavailable"

// ResultNormalizer is a command that produces the final GenerateResponse.
type ResultNormalizer struct {
	cor.BaseCommand
	now func() time.Time
}

// NewResultNormalizer is the constructor for the ResultNormalizer command.
func NewResultNormalizer(name string) *ResultNormalizer {
	out := &ResultNormalizer{BaseCommand: *cor.NewBaseCommand(name), now: time.Now}
	out.InputParamName = ParamRequest
	return out
}

// Execute assembles the final result and stores it under ParamResult.
func (r *ResultNormalizer) Execute(context cor.Context) {
	request := context.Get(r.GetInputParam()).(*model.GenerateRequest)
	maxSongs, maxTopics := request.Normalize()

	accessURL, _ := context.Get(ParamAccessURL).(string)

	var result *model.GenerateResponse
	if raw, ok := context.Get(ParamRawResult).(*model.RawGenerateResponse); ok {
		result = Normalize(raw, request.Language, maxSongs, maxTopics)
	} else {
		// No model output: the analysis was absent and the model stages
		// were skipped.
		result = FallbackResult(request.Language)
	}

	result.ImageURL = accessURL
	result.Meta.GeneratedAt = r.now().UTC().Format(time.RFC3339)

	r.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamResult, result)
	context.Add(r.GetOutputParam(), result)
}

// FallbackResult is the fixed result returned when no design analysis is
// available: an appropriate low-risk curation carrying the fallback note,
// an empty caption, no recommendations, and a neutral engagement score.
func FallbackResult(language string) *model.GenerateResponse {
	return &model.GenerateResponse{
		Curation: model.Curation{
			IsAppropriate: true,
			Risk:          "low",
			Notes:         FallbackNotes,
			Labels:        []string{},
		},
		Caption: model.Caption{Text: "", Alternatives: []string{}},
		Songs:   []model.Song{},
		Topics:  []model.Topic{},
		Engagement: model.Engagement{
			EstimatedScore: 0.5,
			Drivers:        []string{},
			Suggestions:    []string{},
		},
		Meta: model.Meta{Language: language},
	}
}

// Normalize merges the model's partial document with defaults. Missing
// sections and fields take their neutral values, nil arrays become empty,
// and the song and topic lists are truncated to the ceilings preserving
// the model's order.
func Normalize(raw *model.RawGenerateResponse, language string, maxSongs int, maxTopics int) *model.GenerateResponse {
	out := &model.GenerateResponse{
		Curation: model.Curation{
			IsAppropriate: true,
			Risk:          "low",
			Notes:         "",
			Labels:        []string{},
		},
		Caption: model.Caption{Text: "", Alternatives: []string{}},
		Songs:   truncateSongs(raw.Songs, maxSongs),
		Topics:  truncateTopics(raw.Topics, maxTopics),
		Engagement: model.Engagement{
			EstimatedScore: 0.5,
			Drivers:        []string{},
			Suggestions:    []string{},
		},
		Meta: model.Meta{Language: language},
	}

	if raw.Curation != nil {
		if raw.Curation.IsAppropriate != nil {
			out.Curation.IsAppropriate = *raw.Curation.IsAppropriate
		}
		if raw.Curation.Risk != nil {
			out.Curation.Risk = *raw.Curation.Risk
		}
		if raw.Curation.Notes != nil {
			out.Curation.Notes = *raw.Curation.Notes
		}
		if raw.Curation.Labels != nil {
			out.Curation.Labels = raw.Curation.Labels
		}
	}

	if raw.Caption != nil {
		if raw.Caption.Text != nil {
			out.Caption.Text = *raw.Caption.Text
		}
		if raw.Caption.Alternatives != nil {
			out.Caption.Alternatives = raw.Caption.Alternatives
		}
	}

	if raw.Engagement != nil {
		if raw.Engagement.EstimatedScore != nil {
			out.Engagement.EstimatedScore = *raw.Engagement.EstimatedScore
		}
		if raw.Engagement.Drivers != nil {
			out.Engagement.Drivers = raw.Engagement.Drivers
		}
		if raw.Engagement.Suggestions != nil {
			out.Engagement.Suggestions = raw.Engagement.Suggestions
		}
	}

	return out
}

func truncateSongs(in []model.Song, max int) []model.Song {
	if in == nil {
		return []model.Song{}
	}
	if len(in) > max {
		return in[:max]
	}
	return in
}

func truncateTopics(in []model.Topic, max int) []model.Topic {
	if in == nil {
		return []model.Topic{}
	}
	if len(in) > max {
		return in[:max]
	}
	return in
}
