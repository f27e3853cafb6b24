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
// first step of the generation pipeline: turning the request's file key
// into a short-lived presigned URL that the analysis service, the image
// fetcher, and the final response all use to reach the uploaded image.
package commands

import (
	"context"
	"fmt"

	"github.com/kontenlab/konten-backend/internal/core/cor"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// URLSigner mints presigned access URLs for stored objects. The storage
// service provides the production implementation.
type URLSigner interface {
	AccessURL(ctx context.Context, fileKey string) (string, error)
}

// AccessURLResolver is a command that resolves the request's file key into a
// presigned GET URL.
type AccessURLResolver struct {
	cor.BaseCommand
	signer URLSigner
}

// NewAccessURLResolver is the constructor for the AccessURLResolver command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - signer: The presigner used to mint access URLs.
//
// Outputs:
//   - *AccessURLResolver: A pointer to the newly instantiated command.
func NewAccessURLResolver(name string, signer URLSigner) *AccessURLResolver {
	out := &AccessURLResolver{BaseCommand: *cor.NewBaseCommand(name), signer: signer}
	out.InputParamName = ParamRequest
	return out
}

// Execute resolves the presigned URL and stores it under ParamAccessURL for
// the rest of the pipeline.
func (a *AccessURLResolver) Execute(context cor.Context) {
	request := context.Get(a.GetInputParam()).(*model.GenerateRequest)

	accessURL, err := a.signer.AccessURL(context.GetContext(), request.FileKey)
	if err != nil {
		a.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(a.GetName(), fmt.Errorf("failed to presign access url for %q: %w", request.FileKey, err))
		return
	}

	a.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(ParamAccessURL, accessURL)
	context.Add(a.GetOutputParam(), accessURL)
}
