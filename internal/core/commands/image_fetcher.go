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
// image download step of the generation pipeline: it pulls the bytes behind
// the presigned URL so they can be sent to the model inline. Any failure
// here, network, status, or read, surfaces as model.ErrImageInaccessible.
// Like the prompt builder, this stage only runs when the analysis outcome
// is Present.
package commands

import (
	"io"
	"net/http"
	"time"

	"github.com/h2non/filetype"
	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// ImagePayload carries the downloaded image bytes and their sniffed MIME
// type for the inline model part.
type ImagePayload struct {
	MIMEType string
	Data     []byte
}

// ImageFetcher is a command that downloads the source image.
type ImageFetcher struct {
	cor.BaseCommand
	client *http.Client
}

// NewImageFetcher is the constructor for the ImageFetcher command. A zero
// timeout defaults to 10 seconds.
func NewImageFetcher(name string, timeout time.Duration) *ImageFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	out := &ImageFetcher{
		BaseCommand: *cor.NewBaseCommand(name),
		client:      &http.Client{Timeout: timeout},
	}
	out.InputParamName = ParamAccessURL
	return out
}

// IsExecutable gates the command on a Present analysis outcome, keeping the
// fallback path free of network calls.
func (f *ImageFetcher) IsExecutable(context cor.Context) bool {
	if !f.BaseCommand.IsExecutable(context) {
		return false
	}
	outcome, ok := context.Get(ParamAnalysis).(*model.AnalysisOutcome)
	return ok && outcome.Present
}

// Execute downloads the image and stores the payload under ParamImage.
func (f *ImageFetcher) Execute(context cor.Context) {
	accessURL := context.Get(f.GetInputParam()).(string)

	fail := func() {
		f.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(f.GetName(), model.ErrImageInaccessible)
	}

	req, err := http.NewRequestWithContext(context.GetContext(), http.MethodGet, accessURL, nil)
	if err != nil {
		fail()
		return
	}

	resp, err := f.client.Do(req)
	if err != nil {
		fail()
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fail()
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		fail()
		return
	}

	// Sniff the real content type from the bytes rather than trusting the
	// upload metadata.
	mimeType := "image/jpeg"
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		mimeType = kind.MIME.Value
	}

	f.GetSuccessCounter().Add(context.GetContext(), 1)
	payload := &ImagePayload{MIMEType: mimeType, Data: data}
	context.Add(ParamImage, payload)
	context.Add(f.GetOutputParam(), payload)
}
