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

// Package api contains the HTTP route handlers. This file defines the error
// envelope and the translation from the domain's error kinds to it. Clients
// branch on the machine-readable code; the message is the human-readable
// text and the hint, when present, tells the caller what to try.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontenlab/konten-backend/internal/core/model"
)

// Error codes surfaced in the envelope.
const (
	CodeImageFetchFailed    = "IMAGE_FETCH_FAILED"
	CodeAnalysisServiceDown = "ANALYSIS_SERVICE_DOWN"
	CodeModerationRejected  = "CONTENT_MODERATION_REJECTED"
	CodeHistoryFetchFailed  = "HISTORY_FETCH_FAILED"
)

// ErrorResponse is the error envelope of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// writeError emits an error envelope with a matching HTTP status.
func writeError(c *gin.Context, resp ErrorResponse) {
	c.JSON(resp.Status, resp)
}

// writeGenerateError maps a generation failure onto the envelope. Unknown
// errors surface their message under a plain 500.
func writeGenerateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrImageInaccessible):
		writeError(c, ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: model.ErrImageInaccessible.Error(),
			Code:    CodeImageFetchFailed,
			Hint:    "Ensure the image is publicly accessible or provide a valid signed URL.",
		})
	case errors.Is(err, model.ErrAnalysisUnavailable):
		writeError(c, ErrorResponse{
			Status:  http.StatusBadGateway,
			Message: err.Error(),
			Code:    CodeAnalysisServiceDown,
		})
	case errors.Is(err, model.ErrModerationRejected):
		writeError(c, ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
			Code:    CodeModerationRejected,
		})
	default:
		writeError(c, ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}
