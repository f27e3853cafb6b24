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

// Package cloud provides the external-service clients and configuration.
// This file implements the Google Trends client. Trends has no official API;
// the widget endpoints the public site uses are called directly: an explore
// request issues per-widget tokens, and the widgetdata endpoints redeem them.
// Every response is prefixed with an XSSI guard (")]}'") that has to be
// stripped before parsing. A blocked or throttled request comes back as an
// HTML page, which surfaces here as a JSON parse failure; the trends service
// translates both that and explicit 429s into a rate-limit error.
package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kontenlab/konten-backend/internal/core/model"
)

const (
	defaultTrendsBaseURL = "https://trends.google.com/trends"

	// Trends rejects requests without a browser-looking user agent.
	trendsUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	widgetTimeseries     = "TIMESERIES"
	widgetRelatedQueries = "RELATED_QUERIES"
)

// TrendsProvider is the surface the trends service consumes. The production
// implementation is GoogleTrendsClient; tests substitute fakes.
type TrendsProvider interface {
	InterestOverTime(ctx context.Context, keyword string, geo string) ([]model.TrendPoint, error)
	RelatedQueries(ctx context.Context, keyword string, geo string) (*model.RelatedQueries, error)
	DailyTrends(ctx context.Context, geo string) ([]model.DailyTrend, error)
}

// GoogleTrendsClient speaks the widget protocol of the public trends site.
type GoogleTrendsClient struct {
	baseURL string
	client  *http.Client
}

// NewGoogleTrendsClient builds a client from the trends config section. A
// zero timeout defaults to 10 seconds.
func NewGoogleTrendsClient(cfg Trends) *GoogleTrendsClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleTrendsClient{
		baseURL: defaultTrendsBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// exploreWidget is one entry of the explore response's widget list.
type exploreWidget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

// get fetches a trends endpoint and returns the body with the XSSI guard
// stripped, ready for JSON parsing.
func (g *GoogleTrendsClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", trendsUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends upstream returned status %d", resp.StatusCode)
	}
	return stripXSSIGuard(body), nil
}

// stripXSSIGuard drops the ")]}'" prefix (and anything else ahead of the
// first JSON byte) that trends endpoints prepend to their payloads.
func stripXSSIGuard(body []byte) []byte {
	idx := strings.IndexAny(string(body), "{[")
	if idx < 0 {
		return body
	}
	return body[idx:]
}

// parse decodes a trends payload, labeling malformed bodies the way the
// blocked-response HTML shows up so the service maps them to a rate limit.
func parseTrendsJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("JSON Parse error: %w", err)
	}
	return nil
}

// explore requests the widget tokens for a keyword and returns the widget
// matching the wanted id.
func (g *GoogleTrendsClient) explore(ctx context.Context, keyword string, geo string, wantWidget string) (*exploreWidget, error) {
	reqPayload := map[string]any{
		"comparisonItem": []map[string]any{
			{"keyword": keyword, "geo": geo, "time": "today 12-m"},
		},
		"category": 0,
		"property": "",
	}
	reqJSON, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("hl", "en-US")
	q.Set("tz", "-420")
	q.Set("req", string(reqJSON))

	body, err := g.get(ctx, g.baseURL+"/api/explore?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Widgets []exploreWidget `json:"widgets"`
	}
	if err := parseTrendsJSON(body, &parsed); err != nil {
		return nil, err
	}
	for i := range parsed.Widgets {
		if parsed.Widgets[i].ID == wantWidget {
			return &parsed.Widgets[i], nil
		}
	}
	return nil, fmt.Errorf("trends explore response is missing the %s widget", wantWidget)
}

// widgetData redeems a widget token against the given data endpoint.
func (g *GoogleTrendsClient) widgetData(ctx context.Context, endpoint string, widget *exploreWidget) ([]byte, error) {
	q := url.Values{}
	q.Set("hl", "en-US")
	q.Set("tz", "-420")
	q.Set("req", string(widget.Request))
	q.Set("token", widget.Token)
	return g.get(ctx, g.baseURL+endpoint+"?"+q.Encode())
}

// InterestOverTime returns the 12-month interest series for a keyword.
func (g *GoogleTrendsClient) InterestOverTime(ctx context.Context, keyword string, geo string) ([]model.TrendPoint, error) {
	widget, err := g.explore(ctx, keyword, geo, widgetTimeseries)
	if err != nil {
		return nil, err
	}

	body, err := g.widgetData(ctx, "/api/widgetdata/multiline", widget)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Default struct {
			TimelineData []struct {
				FormattedTime string `json:"formattedTime"`
				Value         []int  `json:"value"`
			} `json:"timelineData"`
		} `json:"default"`
	}
	if err := parseTrendsJSON(body, &parsed); err != nil {
		return nil, err
	}

	points := make([]model.TrendPoint, 0, len(parsed.Default.TimelineData))
	for _, item := range parsed.Default.TimelineData {
		value := 0
		if len(item.Value) > 0 {
			value = item.Value[0]
		}
		points = append(points, model.TrendPoint{Time: item.FormattedTime, Value: value})
	}
	return points, nil
}

// RelatedQueries returns the top and rising related searches for a keyword.
// Top entries carry the relative score; rising entries carry the formatted
// growth string ("Breakout", "+250%").
func (g *GoogleTrendsClient) RelatedQueries(ctx context.Context, keyword string, geo string) (*model.RelatedQueries, error) {
	widget, err := g.explore(ctx, keyword, geo, widgetRelatedQueries)
	if err != nil {
		return nil, err
	}

	body, err := g.widgetData(ctx, "/api/widgetdata/relatedsearches", widget)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Default struct {
			RankedList []struct {
				RankedKeyword []struct {
					Query          string `json:"query"`
					Value          int    `json:"value"`
					FormattedValue string `json:"formattedValue"`
				} `json:"rankedKeyword"`
			} `json:"rankedList"`
		} `json:"default"`
	}
	if err := parseTrendsJSON(body, &parsed); err != nil {
		return nil, err
	}

	out := &model.RelatedQueries{
		Top:    make([]model.RelatedQueryItem, 0),
		Rising: make([]model.RelatedQueryItem, 0),
	}
	if len(parsed.Default.RankedList) > 0 {
		for _, item := range parsed.Default.RankedList[0].RankedKeyword {
			out.Top = append(out.Top, model.RelatedQueryItem{Query: item.Query, Value: item.Value})
		}
	}
	if len(parsed.Default.RankedList) > 1 {
		for _, item := range parsed.Default.RankedList[1].RankedKeyword {
			out.Rising = append(out.Rising, model.RelatedQueryItem{Query: item.Query, Value: item.FormattedValue})
		}
	}
	return out, nil
}

// DailyTrends returns today's trending searches for a geo.
func (g *GoogleTrendsClient) DailyTrends(ctx context.Context, geo string) ([]model.DailyTrend, error) {
	q := url.Values{}
	q.Set("hl", "en-US")
	q.Set("tz", "-420")
	q.Set("geo", geo)
	q.Set("ns", "15")

	body, err := g.get(ctx, g.baseURL+"/api/dailytrends?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Default struct {
			TrendingSearchesDays []struct {
				TrendingSearches []struct {
					Title struct {
						Query string `json:"query"`
					} `json:"title"`
					FormattedTraffic string               `json:"formattedTraffic"`
					Articles         []model.TrendArticle `json:"articles"`
				} `json:"trendingSearches"`
			} `json:"trendingSearchesDays"`
		} `json:"default"`
	}
	if err := parseTrendsJSON(body, &parsed); err != nil {
		return nil, err
	}

	trends := make([]model.DailyTrend, 0)
	if len(parsed.Default.TrendingSearchesDays) > 0 {
		for _, trend := range parsed.Default.TrendingSearchesDays[0].TrendingSearches {
			articles := trend.Articles
			if articles == nil {
				articles = make([]model.TrendArticle, 0)
			}
			trends = append(trends, model.DailyTrend{
				Title:    trend.Title.Query,
				Traffic:  trend.FormattedTraffic,
				Articles: articles,
			})
		}
	}
	return trends, nil
}
