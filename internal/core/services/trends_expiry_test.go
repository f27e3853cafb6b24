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

// White-box test for cache expiry. The configured TTLs have minute
// granularity, so the test swaps in a millisecond cache directly.
package services

import (
	"context"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/core/model"
)

// expiringProvider counts interest lookups.
type expiringProvider struct {
	calls int
}

func (p *expiringProvider) InterestOverTime(_ context.Context, _ string, _ string) ([]model.TrendPoint, error) {
	p.calls++
	return []model.TrendPoint{{Time: "Aug 2026", Value: p.calls}}, nil
}

func (p *expiringProvider) RelatedQueries(_ context.Context, _ string, _ string) (*model.RelatedQueries, error) {
	return &model.RelatedQueries{}, nil
}

func (p *expiringProvider) DailyTrends(_ context.Context, _ string) ([]model.DailyTrend, error) {
	return nil, nil
}

// TestInterestOverTimeExpiry verifies a lookup after the TTL elapses goes
// back to the upstream.
func TestInterestOverTimeExpiry(t *testing.T) {
	provider := &expiringProvider{}
	svc := &TrendsService{
		Provider:      provider,
		Geo:           "ID",
		interestCache: cache.New(10*time.Millisecond, time.Minute),
		relatedCache:  cache.New(10*time.Millisecond, time.Minute),
		dailyCache:    cache.New(10*time.Millisecond, time.Minute),
	}

	_, err := svc.InterestOverTime(context.Background(), "kopi")
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	time.Sleep(30 * time.Millisecond)

	_, err = svc.InterestOverTime(context.Background(), "kopi")
	assert.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
