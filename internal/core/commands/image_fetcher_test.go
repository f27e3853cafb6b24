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
// commands. This file covers the image download stage: MIME sniffing on
// success and the single error kind every failure collapses to.
package commands_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// pngHeader is the magic number of a PNG file, enough for type sniffing.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

// fetchContext builds a chain context on the analysis-present path pointing
// at the given URL.
func fetchContext(url string) cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.ParamAccessURL, url)
	ctx.Add(commands.ParamAnalysis, model.PresentAnalysis(&model.DesignAnalysis{}))
	return ctx
}

// TestImageFetcherSniffsMIME verifies a successful download stores the bytes
// with the MIME type sniffed from the content rather than the headers.
func TestImageFetcherSniffsMIME(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Deliberately wrong content type; the sniffer must win.
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	fetcher := commands.NewImageFetcher("fetch-image", time.Second)
	ctx := fetchContext(srv.URL)
	fetcher.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	payload, ok := ctx.Get(commands.ParamImage).(*commands.ImagePayload)
	assert.True(t, ok)
	assert.Equal(t, "image/png", payload.MIMEType)
	assert.Equal(t, pngHeader, payload.Data)
}

// TestImageFetcherStatusFailure verifies a non-200 reply surfaces as the
// image-inaccessible error.
func TestImageFetcherStatusFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	fetcher := commands.NewImageFetcher("fetch-image", time.Second)
	ctx := fetchContext(srv.URL)
	fetcher.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.ErrorIs(t, ctx.GetErrors()["fetch-image"], model.ErrImageInaccessible)
}

// TestImageFetcherConnectionFailure verifies an unreachable URL surfaces the
// same error kind as a bad status.
func TestImageFetcherConnectionFailure(t *testing.T) {
	fetcher := commands.NewImageFetcher("fetch-image", 200*time.Millisecond)
	ctx := fetchContext("http://127.0.0.1:1/never")
	fetcher.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.ErrorIs(t, ctx.GetErrors()["fetch-image"], model.ErrImageInaccessible)
}

// TestImageFetcherSkipsWhenAnalysisAbsent verifies the fetcher stays off the
// network on the fallback path.
func TestImageFetcherSkipsWhenAnalysisAbsent(t *testing.T) {
	fetcher := commands.NewImageFetcher("fetch-image", time.Second)

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(commands.ParamAccessURL, "https://bucket.example/a.jpg")
	ctx.Add(commands.ParamAnalysis, model.AbsentAnalysis())

	assert.False(t, fetcher.IsExecutable(ctx))
}
