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

// Package api contains the HTTP route handlers. This file defines the
// content generation routes: the generation call itself and the two history
// reads.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kontenlab/konten-backend/internal/auth"
	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// GenerateRouter sets up the routes of the content generation feature under
// the given group. All three routes require an authenticated user.
//
// Inputs:
//   - r: The router group to register under, typically /api/v1.
//   - generator: The generation service.
//   - history: The history read service.
func GenerateRouter(r *gin.RouterGroup, generator *services.GeneratorService, history *services.HistoryService) {
	generate := r.Group("/generate")
	{
		generate.POST("/from-image", func(c *gin.Context) {
			var request model.GenerateRequest
			if err := c.ShouldBindJSON(&request); err != nil {
				writeError(c, ErrorResponse{
					Status:  http.StatusBadRequest,
					Message: "fileKey is required",
				})
				return
			}

			result, err := generator.Generate(c.Request.Context(), auth.UserID(c), &request)
			if err != nil {
				writeGenerateError(c, err)
				return
			}
			c.JSON(http.StatusOK, result)
		})

		generate.GET("/history", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))
			if err != nil {
				limit = services.DefaultHistoryLimit
			}

			page, err := history.List(c.Request.Context(), auth.UserID(c), limit)
			if err != nil {
				writeError(c, ErrorResponse{
					Status:  http.StatusInternalServerError,
					Message: err.Error(),
					Code:    CodeHistoryFetchFailed,
					Hint:    "Please try again later or contact support if the issue persists.",
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"status":   http.StatusOK,
				"message":  "History fetched successfully",
				"items":    page.Items,
				"pageInfo": page.PageInfo,
			})
		})

		generate.GET("/history/:id", func(c *gin.Context) {
			detail, err := history.Detail(c.Request.Context(), auth.UserID(c), c.Param("id"))
			if err != nil {
				switch {
				case errors.Is(err, model.ErrHistoryNotFound):
					writeError(c, ErrorResponse{Status: http.StatusNotFound, Message: "History not found"})
				case errors.Is(err, model.ErrHistoryForbidden):
					writeError(c, ErrorResponse{Status: http.StatusForbidden, Message: "You don't have permission to view this item"})
				default:
					writeError(c, ErrorResponse{Status: http.StatusInternalServerError, Message: "Internal Server Error"})
				}
				return
			}
			c.JSON(http.StatusOK, gin.H{"item": detail})
		})
	}
}
