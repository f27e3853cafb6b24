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

package model

// DesignMetric is a single scored aspect of the visual analysis, e.g. the
// clutter or balance score of the composition.
type DesignMetric struct {
	Score   float64 `json:"score"`
	Message string  `json:"message"`
}

// DesignCuration groups the per-aspect metrics of the analysis verdict.
type DesignCuration struct {
	Clutter DesignMetric `json:"clutter"`
	Balance DesignMetric `json:"balance"`
}

// DesignData is the payload section of an analysis service response.
type DesignData struct {
	IsAppropriate bool           `json:"isAppropriate"`
	Curation      DesignCuration `json:"curation"`
}

// DesignAnalysis is the full response envelope of the external design
// analysis service.
type DesignAnalysis struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Data    DesignData `json:"data"`
}

// AnalysisOutcome is the tagged result of a design analysis attempt. The
// service being unconfigured is a legitimate state, distinct from a failure:
// the pipeline then produces a fixed fallback result without ever calling the
// generative model.
type AnalysisOutcome struct {
	Present  bool
	Analysis *DesignAnalysis
}

// AbsentAnalysis marks the analysis as intentionally skipped.
func AbsentAnalysis() *AnalysisOutcome {
	return &AnalysisOutcome{Present: false}
}

// PresentAnalysis wraps a successful analysis response.
func PresentAnalysis(a *DesignAnalysis) *AnalysisOutcome {
	return &AnalysisOutcome{Present: true, Analysis: a}
}
