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

package model

// TrendPoint is one sample of an interest-over-time series.
type TrendPoint struct {
	Time  string `json:"time"`
	Value int    `json:"value"`
}

// RelatedQueryItem is a related search query. Value is a score (e.g. 100)
// for top queries, and a formatted growth string (e.g. "Breakout", "+250%")
// for rising queries.
type RelatedQueryItem struct {
	Query string `json:"query"`
	Value any    `json:"value"`
}

// RelatedQueries groups the top and rising query lists for a keyword.
type RelatedQueries struct {
	Top    []RelatedQueryItem `json:"top"`
	Rising []RelatedQueryItem `json:"rising"`
}

// TrendArticle is a news article attached to a daily trending search.
type TrendArticle struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// DailyTrend is one trending search of the day.
type DailyTrend struct {
	Title    string         `json:"title"`
	Traffic  string         `json:"traffic"`
	Articles []TrendArticle `json:"articles"`
}
