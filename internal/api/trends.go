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
// trends route. One endpoint serves two modes: with a keyword it returns
// the interest timeline plus related queries, without one it falls back to
// the daily trending list. Errors keep the same envelope shape with the
// payload fields nulled so clients can bind one schema for both outcomes.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// trendsStatus picks the HTTP status for a trends failure.
func trendsStatus(err error) int {
	if errors.Is(err, model.ErrTrendsRateLimited) {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// TrendsRouter sets up the trends route under the given group.
func TrendsRouter(r *gin.RouterGroup, trends *services.TrendsService) {
	r.GET("/trends", func(c *gin.Context) {
		keyword := c.Query("keyword")

		// Daily mode: no keyword supplied.
		if keyword == "" {
			data, err := trends.DailyTrends(c.Request.Context())
			if err != nil {
				slog.ErrorContext(c.Request.Context(), "trends lookup failed", "mode", "daily", "error", err)
				c.JSON(trendsStatus(err), gin.H{
					"success": false,
					"type":    "daily",
					"message": err.Error(),
					"data":    nil,
				})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"type":    "daily",
				"data":    data,
			})
			return
		}

		// Keyword mode: timeline and related queries, both or neither.
		out, err := trends.KeywordTrends(c.Request.Context(), keyword)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "trends lookup failed", "mode", "keyword", "keyword", keyword, "error", err)
			c.JSON(trendsStatus(err), gin.H{
				"success":  false,
				"type":     "keyword",
				"message":  err.Error(),
				"keyword":  keyword,
				"timeline": nil,
				"related":  nil,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"type":     "keyword",
			"keyword":  keyword,
			"timeline": out.Timeline,
			"related":  out.Related,
		})
	})
}
