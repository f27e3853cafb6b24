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

// Tests for the generation endpoint's wire protocol: the validation reply
// and the mapping from pipeline failures to the coded error envelope.
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/api"
	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// stubPipeline stands in for the generation chain behind the endpoint.
type stubPipeline struct {
	cor.BaseCommand
	result *model.GenerateResponse
	err    error
}

func (s *stubPipeline) Execute(ctx cor.Context) {
	if s.err != nil {
		ctx.AddError(s.GetName(), s.err)
		return
	}
	if s.result != nil {
		ctx.Add(commands.ParamResult, s.result)
	}
}

func (s *stubPipeline) IsExecutable(_ cor.Context) bool { return true }

// newGenerateRouter wires the generation routes against a stubbed pipeline.
// The persister swallows writes so tests stay off the database.
func newGenerateRouter(pipeline *stubPipeline) (*gin.Engine, *services.HistoryPersister) {
	gin.SetMode(gin.TestMode)
	persister := services.NewHistoryPersister(func(_ context.Context, _ string, _ string, _ *model.GenerateResponse) error {
		return nil
	})
	generator := services.NewGeneratorService(pipeline, persister)

	r := gin.New()
	api.GenerateRouter(r.Group("/api/v1"), generator, &services.HistoryService{})
	return r, persister
}

// postJSON runs a POST with a JSON body and decodes the JSON reply.
func postJSON(t *testing.T, r *gin.Engine, path string, payload string) (int, map[string]any) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

// TestGenerateFromImageSuccess verifies a clean run returns the result
// document as-is.
func TestGenerateFromImageSuccess(t *testing.T) {
	result := &model.GenerateResponse{}
	result.Curation.IsAppropriate = true
	result.Curation.Risk = "low"
	result.Caption.Text = "Pagi yang sempurna."
	pipeline := &stubPipeline{BaseCommand: *cor.NewBaseCommand("stub-pipeline"), result: result}
	r, persister := newGenerateRouter(pipeline)

	code, body := postJSON(t, r, "/api/v1/generate/from-image", `{"fileKey":"users/u1/a.jpg"}`)
	persister.Wait()

	assert.Equal(t, http.StatusOK, code)
	caption := body["caption"].(map[string]any)
	assert.Equal(t, "Pagi yang sempurna.", caption["text"])
}

// TestGenerateFromImageMissingFileKey verifies the binding failure reply.
func TestGenerateFromImageMissingFileKey(t *testing.T) {
	pipeline := &stubPipeline{BaseCommand: *cor.NewBaseCommand("stub-pipeline")}
	r, _ := newGenerateRouter(pipeline)

	code, body := postJSON(t, r, "/api/v1/generate/from-image", `{}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "fileKey is required", body["message"])
}

// TestGenerateFromImageFetchFailure verifies the inaccessible-image mapping:
// a 400 with the fetch code and the guidance hint.
func TestGenerateFromImageFetchFailure(t *testing.T) {
	pipeline := &stubPipeline{BaseCommand: *cor.NewBaseCommand("stub-pipeline"), err: model.ErrImageInaccessible}
	r, _ := newGenerateRouter(pipeline)

	code, body := postJSON(t, r, "/api/v1/generate/from-image", `{"fileKey":"users/u1/a.jpg"}`)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, api.CodeImageFetchFailed, body["code"])
	assert.Equal(t, model.ErrImageInaccessible.Error(), body["message"])
	assert.Contains(t, body["hint"], "publicly accessible")
}

// TestGenerateFromImageAnalysisDown verifies the analysis outage mapping to
// a 502 with its code.
func TestGenerateFromImageAnalysisDown(t *testing.T) {
	pipeline := &stubPipeline{BaseCommand: *cor.NewBaseCommand("stub-pipeline"), err: model.ErrAnalysisUnavailable}
	r, _ := newGenerateRouter(pipeline)

	code, body := postJSON(t, r, "/api/v1/generate/from-image", `{"fileKey":"users/u1/a.jpg"}`)

	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, api.CodeAnalysisServiceDown, body["code"])
}

// TestGenerateFromImageModerationRejected verifies the moderation mapping to
// a 400 with its code.
func TestGenerateFromImageModerationRejected(t *testing.T) {
	rejected := &model.GenerateResponse{}
	rejected.Curation.IsAppropriate = false
	rejected.Curation.Risk = "high"
	pipeline := &stubPipeline{BaseCommand: *cor.NewBaseCommand("stub-pipeline"), result: rejected}
	r, persister := newGenerateRouter(pipeline)

	code, body := postJSON(t, r, "/api/v1/generate/from-image", `{"fileKey":"users/u1/a.jpg"}`)
	persister.Wait()

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, api.CodeModerationRejected, body["code"])
	assert.Equal(t, model.ErrModerationRejected.Error(), body["message"])
}
