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

// Package services_test contains unit tests for the business services. This
// file covers the trends facade: cache behavior, the rate-limit
// translation, and the both-or-fail keyword fan-out.
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// fakeTrendsProvider serves canned responses and counts upstream calls per
// operation.
type fakeTrendsProvider struct {
	interest      []model.TrendPoint
	interestErr   error
	interestCalls int

	related      *model.RelatedQueries
	relatedErr   error
	relatedCalls int

	daily      []model.DailyTrend
	dailyErr   error
	dailyCalls int
}

func (f *fakeTrendsProvider) InterestOverTime(_ context.Context, _ string, _ string) ([]model.TrendPoint, error) {
	f.interestCalls++
	return f.interest, f.interestErr
}

func (f *fakeTrendsProvider) RelatedQueries(_ context.Context, _ string, _ string) (*model.RelatedQueries, error) {
	f.relatedCalls++
	return f.related, f.relatedErr
}

func (f *fakeTrendsProvider) DailyTrends(_ context.Context, _ string) ([]model.DailyTrend, error) {
	f.dailyCalls++
	return f.daily, f.dailyErr
}

// newTrendsService wires the facade with default TTLs and the fake
// provider.
func newTrendsService(provider cloud.TrendsProvider) *services.TrendsService {
	config := cloud.NewConfig()
	config.Trends.Geo = "ID"
	return services.NewTrendsService(config, provider)
}

// TestInterestOverTimeCaches verifies a second lookup within the TTL never
// reaches the upstream.
func TestInterestOverTimeCaches(t *testing.T) {
	provider := &fakeTrendsProvider{interest: []model.TrendPoint{{Time: "Aug 2026", Value: 42}}}
	svc := newTrendsService(provider)

	first, err := svc.InterestOverTime(context.Background(), "kopi")
	assert.NoError(t, err)
	second, err := svc.InterestOverTime(context.Background(), "kopi")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.interestCalls)
}

// TestInterestOverTimeEmptyNotCached verifies an empty series is an error
// and the next lookup retries the upstream.
func TestInterestOverTimeEmptyNotCached(t *testing.T) {
	provider := &fakeTrendsProvider{interest: []model.TrendPoint{}}
	svc := newTrendsService(provider)

	_, err := svc.InterestOverTime(context.Background(), "kopi")
	assert.ErrorIs(t, err, model.ErrTrendsNoData)

	_, err = svc.InterestOverTime(context.Background(), "kopi")
	assert.ErrorIs(t, err, model.ErrTrendsNoData)
	assert.Equal(t, 2, provider.interestCalls)
}

// TestRateLimitTranslation verifies both throttling signatures, an explicit
// 429 and the parse failure a block page causes, map to the rate-limit
// error.
func TestRateLimitTranslation(t *testing.T) {
	for _, upstream := range []error{
		errors.New("trends upstream returned status 429"),
		errors.New("JSON Parse error: invalid character '<'"),
	} {
		provider := &fakeTrendsProvider{interestErr: upstream}
		svc := newTrendsService(provider)

		_, err := svc.InterestOverTime(context.Background(), "kopi")
		assert.ErrorIs(t, err, model.ErrTrendsRateLimited)
	}
}

// TestKeywordTrendsBothOrFail verifies the fan-out returns both payloads on
// success and fails as a whole when either leg fails.
func TestKeywordTrendsBothOrFail(t *testing.T) {
	provider := &fakeTrendsProvider{
		interest: []model.TrendPoint{{Time: "Aug 2026", Value: 42}},
		related: &model.RelatedQueries{
			Top:    []model.RelatedQueryItem{{Query: "kopi susu", Value: 100}},
			Rising: []model.RelatedQueryItem{{Query: "kopi gula aren", Value: "Breakout"}},
		},
	}
	svc := newTrendsService(provider)

	out, err := svc.KeywordTrends(context.Background(), "kopi")
	assert.NoError(t, err)
	assert.Len(t, out.Timeline, 1)
	assert.Len(t, out.Related.Top, 1)

	failing := &fakeTrendsProvider{
		interest:   []model.TrendPoint{{Time: "Aug 2026", Value: 42}},
		relatedErr: errors.New("trends upstream returned status 500"),
	}
	svc = newTrendsService(failing)

	_, err = svc.KeywordTrends(context.Background(), "kopi")
	assert.Error(t, err)
}

// TestDailyTrends verifies the daily list is cached under its own key and an
// empty list surfaces the daily-specific error.
func TestDailyTrends(t *testing.T) {
	provider := &fakeTrendsProvider{daily: []model.DailyTrend{{Title: "piala dunia", Traffic: "200K+"}}}
	svc := newTrendsService(provider)

	first, err := svc.DailyTrends(context.Background())
	assert.NoError(t, err)
	_, err = svc.DailyTrends(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.dailyCalls)
	assert.Equal(t, "piala dunia", first[0].Title)

	empty := &fakeTrendsProvider{daily: []model.DailyTrend{}}
	svc = newTrendsService(empty)
	_, err = svc.DailyTrends(context.Background())
	assert.ErrorIs(t, err, model.ErrTrendsNoDaily)
}
