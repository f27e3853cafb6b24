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

// Package model defines the core data structures for the application.
// This file holds the request and response shapes of the content generation
// pipeline. The Raw* variants use pointer fields because the generative model
// returns a partial document; normalization fills the gaps with defaults
// before the result is returned or persisted.
package model

// Default request values applied when the caller omits them.
const (
	DefaultLanguage  = "id"
	DefaultMaxSongs  = 5
	DefaultMaxTopics = 8
)

// DefaultTasks is the task list used when the request does not name any.
func DefaultTasks() []string {
	return []string{"curation", "caption", "songs", "topics", "engagement"}
}

// GenerateContext carries optional caller-supplied steering for the prompt.
type GenerateContext struct {
	UserID     string `json:"userId,omitempty"`
	PostIntent string `json:"postIntent,omitempty"`
}

// GenerateLimits caps the size of the recommendation arrays in the result.
// Zero means "use the default".
type GenerateLimits struct {
	MaxSongs  int `json:"maxSongs,omitempty"`
	MaxTopics int `json:"maxTopics,omitempty"`
}

// GenerateRequest is the body of POST /api/v1/generate/from-image. FileKey
// refers to an object previously uploaded through the presign flow.
type GenerateRequest struct {
	FileKey  string           `json:"fileKey" binding:"required"`
	Tasks    []string         `json:"tasks,omitempty"`
	Language string           `json:"language,omitempty"`
	Context  *GenerateContext `json:"context,omitempty"`
	Limits   *GenerateLimits  `json:"limits,omitempty"`
}

// Normalize applies the default task list, language, and array ceilings.
// It returns the effective maxSongs and maxTopics for the run.
func (r *GenerateRequest) Normalize() (maxSongs int, maxTopics int) {
	if len(r.Tasks) == 0 {
		r.Tasks = DefaultTasks()
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	maxSongs = DefaultMaxSongs
	maxTopics = DefaultMaxTopics
	if r.Limits != nil {
		if r.Limits.MaxSongs > 0 {
			maxSongs = r.Limits.MaxSongs
		}
		if r.Limits.MaxTopics > 0 {
			maxTopics = r.Limits.MaxTopics
		}
	}
	return maxSongs, maxTopics
}

// Curation is the moderation verdict for the analyzed image.
type Curation struct {
	IsAppropriate bool     `json:"isAppropriate"`
	Risk          string   `json:"risk"`
	Notes         string   `json:"notes"`
	Labels        []string `json:"labels"`
}

// Caption holds the primary caption text plus alternatives.
type Caption struct {
	Text         string   `json:"text"`
	Alternatives []string `json:"alternatives"`
}

// Song is a single music recommendation.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Reason string `json:"reason"`
}

// Topic is a hashtag/topic suggestion with a model confidence score.
type Topic struct {
	Topic      string  `json:"topic"`
	Confidence float64 `json:"confidence"`
}

// Engagement is the predicted engagement outlook for the post.
type Engagement struct {
	EstimatedScore float64  `json:"estimatedScore"`
	Drivers        []string `json:"drivers"`
	Suggestions    []string `json:"suggestions"`
}

// Meta records the language the result was generated for and when.
type Meta struct {
	Language    string `json:"language"`
	GeneratedAt string `json:"generatedAt"`
}

// GenerateResponse is the fully normalized generation result: every field is
// populated, arrays are non-nil, and the recommendation lists respect the
// request limits.
type GenerateResponse struct {
	ImageURL   string     `json:"imageUrl"`
	Curation   Curation   `json:"curation"`
	Caption    Caption    `json:"caption"`
	Songs      []Song     `json:"songs"`
	Topics     []Topic    `json:"topics"`
	Engagement Engagement `json:"engagement"`
	Meta       Meta       `json:"meta"`
}

// RawCuration mirrors Curation with optional fields, matching whatever subset
// the model chose to emit.
type RawCuration struct {
	IsAppropriate *bool    `json:"isAppropriate"`
	Risk          *string  `json:"risk"`
	Notes         *string  `json:"notes"`
	Labels        []string `json:"labels"`
}

// RawCaption mirrors Caption with optional fields.
type RawCaption struct {
	Text         *string  `json:"text"`
	Alternatives []string `json:"alternatives"`
}

// RawEngagement mirrors Engagement with optional fields.
type RawEngagement struct {
	EstimatedScore *float64 `json:"estimatedScore"`
	Drivers        []string `json:"drivers"`
	Suggestions    []string `json:"suggestions"`
}

// RawGenerateResponse is the document parsed out of the model's JSON reply
// before normalization. Any section may be missing.
type RawGenerateResponse struct {
	Curation   *RawCuration   `json:"curation"`
	Caption    *RawCaption    `json:"caption"`
	Songs      []Song         `json:"songs"`
	Topics     []Topic        `json:"topics"`
	Engagement *RawEngagement `json:"engagement"`
}
