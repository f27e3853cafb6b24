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

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kontenlab/konten-backend/internal/core/model"
)

// AnalysisClient calls the external design analysis service. The service is
// optional: when no base URL is configured, Analyze reports an Absent
// outcome and the pipeline falls back to a fixed result without touching
// the generative model.
type AnalysisClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewAnalysisClient builds a client from the analysis config section. A zero
// timeout defaults to 4 seconds.
func NewAnalysisClient(cfg Analysis) *AnalysisClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &AnalysisClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Analyze submits the image URL for visual analysis.
//
// Outcomes:
//   - Absent when the service is unconfigured. Not an error.
//   - Present with the parsed analysis on success.
//   - model.ErrAnalysisUnavailable when the configured service fails, which
//     aborts the generation run.
func (a *AnalysisClient) Analyze(ctx context.Context, imageURL string) (*model.AnalysisOutcome, error) {
	if a.baseURL == "" {
		slog.Warn("SKIP ANALYSIS: analysis base URL not configured")
		return model.AbsentAnalysis(), nil
	}

	body, err := json.Marshal(map[string]string{"url": imageURL})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("x-api-key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("design analysis connection error", "error", err)
		return nil, model.ErrAnalysisUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("design analysis API error", "status", resp.StatusCode)
		return nil, model.ErrAnalysisUnavailable
	}

	var analysis model.DesignAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		slog.Error("design analysis returned malformed payload", "error", err)
		return nil, model.ErrAnalysisUnavailable
	}

	slog.Info("design analysis responded",
		"status", resp.StatusCode,
		"isAppropriate", analysis.Data.IsAppropriate)
	return model.PresentAnalysis(&analysis), nil
}
