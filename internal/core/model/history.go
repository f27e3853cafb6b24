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

import "time"

// HistoryRecord is one persisted generation run as stored in the
// generated_contents table, before any child rows are attached.
type HistoryRecord struct {
	ID        string
	UserID    string
	FileKey   string
	CreatedAt time.Time
}

// HistoryItem is a single entry of the history list response. The image URL
// is a fresh presigned access URL, minted at read time.
type HistoryItem struct {
	ID        string `json:"id"`
	FileKey   string `json:"fileKey"`
	ImageURL  string `json:"imageUrl"`
	CreatedAt string `json:"createdAt"`
}

// PageInfo carries the cursor pagination state of a history list response.
type PageInfo struct {
	Limit       int     `json:"limit"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// HistoryPage is the body of GET /api/v1/generate/history.
type HistoryPage struct {
	Items    []HistoryItem `json:"items"`
	PageInfo PageInfo      `json:"pageInfo"`
}

// HistoryDetail is one generation run reassembled from its normalized rows
// into the same shape the generation endpoint returns.
type HistoryDetail struct {
	ID         string     `json:"id"`
	FileKey    string     `json:"fileKey"`
	ImageURL   string     `json:"imageUrl"`
	Curation   Curation   `json:"curation"`
	Caption    Caption    `json:"caption"`
	Songs      []Song     `json:"songs"`
	Topics     []Topic    `json:"topics"`
	Engagement Engagement `json:"engagement"`
	Meta       Meta       `json:"meta"`
}
