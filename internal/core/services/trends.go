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

// Package services contains the business logic for interacting with data
// sources. This file defines the TrendsService, the cached facade over the
// Google Trends client.
//
// Caching rules:
//   - Keyword lookups (interest series and related queries) are cached for
//     an hour per keyword by default.
//   - The daily trending list is cached for four hours under a single
//     geo-scoped key.
//   - Empty results are errors and are never cached, so a transient empty
//     answer does not stick for the whole TTL.
//
// The upstream has no official API, so throttling shows up in two shapes: an
// explicit 429 status or an HTML block page that fails JSON parsing. Both
// are translated to ErrTrendsRateLimited here.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// KeywordTrends bundles the two keyword lookups the endpoint runs in
// parallel.
type KeywordTrends struct {
	Timeline []model.TrendPoint
	Related  *model.RelatedQueries
}

// TrendsService serves trend lookups through per-concern TTL caches.
type TrendsService struct {
	Provider cloud.TrendsProvider // Upstream trends client.
	Geo      string               // Geo code for every lookup, e.g. "ID".

	interestCache *cache.Cache
	relatedCache  *cache.Cache
	dailyCache    *cache.Cache
}

// NewTrendsService is the constructor for the TrendsService. Zero cache
// durations fall back to one hour for keyword data and four hours for the
// daily list.
func NewTrendsService(config *cloud.Config, provider cloud.TrendsProvider) *TrendsService {
	keywordTTL := time.Duration(config.Trends.KeywordCacheMinutes) * time.Minute
	if keywordTTL <= 0 {
		keywordTTL = time.Hour
	}
	dailyTTL := time.Duration(config.Trends.DailyCacheMinutes) * time.Minute
	if dailyTTL <= 0 {
		dailyTTL = 4 * time.Hour
	}

	geo := config.Trends.Geo
	if geo == "" {
		geo = "ID"
	}

	return &TrendsService{
		Provider:      provider,
		Geo:           geo,
		interestCache: cache.New(keywordTTL, 2*keywordTTL),
		relatedCache:  cache.New(keywordTTL, 2*keywordTTL),
		dailyCache:    cache.New(dailyTTL, 2*dailyTTL),
	}
}

// translateTrendsError maps throttling signatures onto the rate-limit error
// and passes everything else through.
func translateTrendsError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "JSON Parse error") {
		return model.ErrTrendsRateLimited
	}
	return err
}

// InterestOverTime returns the cached 12-month interest series for a
// keyword, fetching on a miss.
func (s *TrendsService) InterestOverTime(ctx context.Context, keyword string) ([]model.TrendPoint, error) {
	if cached, ok := s.interestCache.Get(keyword); ok {
		return cached.([]model.TrendPoint), nil
	}

	points, err := s.Provider.InterestOverTime(ctx, keyword, s.Geo)
	if err != nil {
		return nil, translateTrendsError(err)
	}
	if len(points) == 0 {
		return nil, model.ErrTrendsNoData
	}

	s.interestCache.SetDefault(keyword, points)
	return points, nil
}

// RelatedQueries returns the cached related searches for a keyword, fetching
// on a miss. A result with neither top nor rising entries is an error.
func (s *TrendsService) RelatedQueries(ctx context.Context, keyword string) (*model.RelatedQueries, error) {
	if cached, ok := s.relatedCache.Get(keyword); ok {
		return cached.(*model.RelatedQueries), nil
	}

	related, err := s.Provider.RelatedQueries(ctx, keyword, s.Geo)
	if err != nil {
		return nil, translateTrendsError(err)
	}
	if len(related.Top) == 0 && len(related.Rising) == 0 {
		return nil, model.ErrTrendsNoRelated
	}

	s.relatedCache.SetDefault(keyword, related)
	return related, nil
}

// KeywordTrends runs the interest and related lookups in parallel. Both must
// succeed; the first failure cancels the other and is returned.
func (s *TrendsService) KeywordTrends(ctx context.Context, keyword string) (*KeywordTrends, error) {
	out := &KeywordTrends{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		timeline, err := s.InterestOverTime(gctx, keyword)
		if err != nil {
			return err
		}
		out.Timeline = timeline
		return nil
	})
	g.Go(func() error {
		related, err := s.RelatedQueries(gctx, keyword)
		if err != nil {
			return err
		}
		out.Related = related
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DailyTrends returns the cached daily trending searches for the configured
// geo, fetching on a miss.
func (s *TrendsService) DailyTrends(ctx context.Context) ([]model.DailyTrend, error) {
	cacheKey := fmt.Sprintf("daily_%s", s.Geo)
	if cached, ok := s.dailyCache.Get(cacheKey); ok {
		return cached.([]model.DailyTrend), nil
	}

	trends, err := s.Provider.DailyTrends(ctx, s.Geo)
	if err != nil {
		return nil, translateTrendsError(err)
	}
	if len(trends) == 0 {
		return nil, model.ErrTrendsNoDaily
	}

	s.dailyCache.SetDefault(cacheKey, trends)
	return trends, nil
}
