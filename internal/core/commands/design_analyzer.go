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
// design analysis step of the generation pipeline.
//
// Logic Flow:
// The analyzer submits the presigned image URL to the external design
// analysis service and stores the tagged outcome on the context. Three
// things can happen:
//
//  1. The service is unconfigured: the outcome is Absent. Downstream model
//     stages gate on a Present outcome, so the chain skips them and the
//     normalizer emits the fixed fallback result instead.
//  2. The service responds: the outcome is Present and the prompt builder
//     folds the analysis into the model prompt.
//  3. The configured service fails: the run aborts with
//     model.ErrAnalysisUnavailable and the model is never called.
package commands

import (
	"context"
	"log/slog"

	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// Analyzer is the surface of the design analysis client this command needs.
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (*model.AnalysisOutcome, error)
}

// DesignAnalyzer is a command that requests a visual analysis of the source
// image.
type DesignAnalyzer struct {
	cor.BaseCommand
	analyzer Analyzer
}

// NewDesignAnalyzer is the constructor for the DesignAnalyzer command.
func NewDesignAnalyzer(name string, analyzer Analyzer) *DesignAnalyzer {
	out := &DesignAnalyzer{BaseCommand: *cor.NewBaseCommand(name), analyzer: analyzer}
	out.InputParamName = ParamAccessURL
	return out
}

// Execute submits the image for analysis and records the tagged outcome.
func (d *DesignAnalyzer) Execute(context cor.Context) {
	accessURL := context.Get(d.GetInputParam()).(string)

	outcome, err := d.analyzer.Analyze(context.GetContext(), accessURL)
	if err != nil {
		d.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(d.GetName(), err)
		return
	}

	if !outcome.Present {
		slog.WarnContext(context.GetContext(), "design analysis unavailable, proceeding without it")
	}

	d.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamAnalysis, outcome)
	context.Add(d.GetOutputParam(), outcome)
}
