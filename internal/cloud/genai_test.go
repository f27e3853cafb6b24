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

package cloud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"google.golang.org/genai"

	"github.com/kontenlab/konten-backend/internal/cloud"
)

// countingBackend records every generation call and replies with a canned
// response or error.
type countingBackend struct {
	calls int
	resp  *genai.GenerateContentResponse
	err   error
}

func (b *countingBackend) GenerateContent(_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	b.calls++
	return b.resp, b.err
}

// TestGenerateContentSingleAttempt verifies a failing upstream call is issued
// exactly once and its error comes back unchanged.
func TestGenerateContentSingleAttempt(t *testing.T) {
	backend := &countingBackend{err: errors.New("quota exhausted")}
	model := cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "content-flash", backend, 5)

	_, err := model.GenerateContent(context.Background(), cloud.NewTextPart("hello"))

	assert.EqualError(t, err, "quota exhausted")
	assert.Equal(t, 1, backend.calls)
}

// TestGenerateMultiModalResponseSingleAttempt verifies the helper surfaces an
// upstream failure directly without re-issuing the request.
func TestGenerateMultiModalResponseSingleAttempt(t *testing.T) {
	backend := &countingBackend{err: errors.New("upstream unavailable")}
	model := cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "content-flash", backend, 5)

	meter := otel.Meter("test")
	inputCounter, _ := meter.Int64Counter("in")
	outputCounter, _ := meter.Int64Counter("out")

	out, err := cloud.GenerateMultiModalResponse(context.Background(), inputCounter, outputCounter, model, cloud.NewTextPart("hello"))

	assert.EqualError(t, err, "upstream unavailable")
	assert.Equal(t, "", out)
	assert.Equal(t, 1, backend.calls)
}

// TestGenerateMultiModalResponseConcatenatesParts verifies the success path
// joins the candidate part texts into one reply string.
func TestGenerateMultiModalResponseConcatenatesParts(t *testing.T) {
	backend := &countingBackend{
		resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{{Text: "{\"caption\":"}, {Text: "{}}"}},
					},
				},
			},
		},
	}
	model := cloud.NewQuotaAwareModel(&genai.GenerateContentConfig{}, "content-flash", backend, 5)

	meter := otel.Meter("test")
	inputCounter, _ := meter.Int64Counter("in")
	outputCounter, _ := meter.Int64Counter("out")

	out, err := cloud.GenerateMultiModalResponse(context.Background(), inputCounter, outputCounter, model, cloud.NewTextPart("hello"))

	assert.NoError(t, err)
	assert.Equal(t, "{\"caption\":{}}", out)
	assert.Equal(t, 1, backend.calls)
}
