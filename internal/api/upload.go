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

// Package api contains the HTTP route handlers. This file defines the image
// upload routes. Bytes never pass through this server: the client receives a
// presigned PUT URL for the upload and presigned GET URLs for reads, and
// talks to the bucket directly.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontenlab/konten-backend/internal/auth"
	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// UploadRouter sets up the presign routes under the given group. Both
// require an authenticated user.
func UploadRouter(r *gin.RouterGroup, storage *services.StorageService) {
	image := r.Group("/image")
	{
		// Initialize an upload: mints the file key and returns the PUT URL.
		image.POST("/get-presign-url", func(c *gin.Context) {
			var request model.UploadPresignRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				writeError(c, ErrorResponse{
					Status:  http.StatusBadRequest,
					Message: "contentType is required",
				})
				return
			}

			out, err := storage.PresignUpload(c.Request.Context(), auth.UserID(c), request.ContentType, request.FileName)
			if err != nil {
				writeError(c, ErrorResponse{Status: http.StatusInternalServerError, Message: err.Error()})
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Mint a short-lived read URL for an existing file key.
		image.POST("/get-access-url", func(c *gin.Context) {
			var request model.AccessURLRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				writeError(c, ErrorResponse{
					Status:  http.StatusBadRequest,
					Message: "fileKey is required",
				})
				return
			}

			out, err := storage.PresignAccess(c.Request.Context(), request.FileKey)
			if err != nil {
				writeError(c, ErrorResponse{Status: http.StatusInternalServerError, Message: err.Error()})
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}
}
