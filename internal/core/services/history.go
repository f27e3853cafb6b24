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
// sources. This file defines the HistoryService, the persistence layer for
// generation results and the read side behind the history endpoints.
//
// Writes are strictly hierarchical: the parent content row first, then each
// child collection in a fixed order (caption, curation, engagement, songs,
// topics). Children are created right after their parent's id exists, so
// orphans cannot occur, but there is no surrounding transaction: a failure
// partway through leaves the rows written so far in place. That is accepted;
// history is best-effort by design and rows are never updated after creation.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kontenlab/konten-backend/internal/core/commands"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// DefaultHistoryLimit is the page size used when the client does not request
// one.
const DefaultHistoryLimit = 20

// HistoryService reads and writes generation history in Postgres.
type HistoryService struct {
	DB     *pgxpool.Pool      // Postgres connection pool.
	Signer commands.URLSigner // Presigner for the image URLs embedded in reads.
}

// NewHistoryService is the constructor for the HistoryService.
func NewHistoryService(db *pgxpool.Pool, signer commands.URLSigner) *HistoryService {
	return &HistoryService{DB: db, Signer: signer}
}

// validRisk normalizes the stored risk level. Anything outside the known set
// is persisted as "low".
func validRisk(risk string) string {
	switch risk {
	case "low", "medium", "high":
		return risk
	}
	return "low"
}

// nullIfEmpty maps an empty string to a SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Save persists one generation result under the owning user. The parent row
// is written first and every child collection follows in a fixed order; the
// first failure aborts the remaining writes and is returned to the caller.
//
// Inputs:
//   - ctx: The context for the writes.
//   - userID: The owner of the generation.
//   - fileKey: The storage key of the source image.
//   - result: The normalized generation result to persist.
//
// Outputs:
//   - error: The first write failure, or nil when everything landed.
func (s *HistoryService) Save(ctx context.Context, userID string, fileKey string, result *model.GenerateResponse) error {
	var contentID string
	if err := s.DB.QueryRow(ctx, QryInsertContent, userID, fileKey).Scan(&contentID); err != nil {
		return fmt.Errorf("failed to insert content row: %w", err)
	}

	// Caption and its alternatives. An empty caption, as on the fallback
	// path, is not persisted.
	if result.Caption.Text != "" {
		var captionID string
		if err := s.DB.QueryRow(ctx, QryInsertCaption, contentID, result.Caption.Text).Scan(&captionID); err != nil {
			return fmt.Errorf("failed to insert caption: %w", err)
		}
		for _, alt := range result.Caption.Alternatives {
			if _, err := s.DB.Exec(ctx, QryInsertCaptionAlternative, captionID, alt); err != nil {
				return fmt.Errorf("failed to insert caption alternative: %w", err)
			}
		}
	}

	// Curation and its labels.
	var curationID string
	err := s.DB.QueryRow(ctx, QryInsertCuration,
		contentID,
		result.Curation.IsAppropriate,
		validRisk(result.Curation.Risk),
		nullIfEmpty(result.Curation.Notes)).Scan(&curationID)
	if err != nil {
		return fmt.Errorf("failed to insert curation: %w", err)
	}
	for _, label := range result.Curation.Labels {
		if _, err := s.DB.Exec(ctx, QryInsertCurationLabel, curationID, label); err != nil {
			return fmt.Errorf("failed to insert curation label: %w", err)
		}
	}

	// Engagement with its drivers and suggestions.
	var engagementID string
	if err := s.DB.QueryRow(ctx, QryInsertEngagement, contentID, result.Engagement.EstimatedScore).Scan(&engagementID); err != nil {
		return fmt.Errorf("failed to insert engagement: %w", err)
	}
	for _, driver := range result.Engagement.Drivers {
		if _, err := s.DB.Exec(ctx, QryInsertEngagementDriver, engagementID, driver); err != nil {
			return fmt.Errorf("failed to insert engagement driver: %w", err)
		}
	}
	for _, suggestion := range result.Engagement.Suggestions {
		if _, err := s.DB.Exec(ctx, QryInsertEngagementSuggestion, engagementID, suggestion); err != nil {
			return fmt.Errorf("failed to insert engagement suggestion: %w", err)
		}
	}

	// Songs.
	for _, song := range result.Songs {
		if _, err := s.DB.Exec(ctx, QryInsertSong, contentID, song.Title, song.Artist, nullIfEmpty(song.Reason)); err != nil {
			return fmt.Errorf("failed to insert song recommendation: %w", err)
		}
	}

	// Topics.
	for _, topic := range result.Topics {
		if _, err := s.DB.Exec(ctx, QryInsertTopic, contentID, topic.Topic, topic.Confidence); err != nil {
			return fmt.Errorf("failed to insert topic recommendation: %w", err)
		}
	}

	return nil
}

// List pages a user's generations, newest first. The query fetches one row
// past the limit; when that extra row exists it becomes the next cursor and
// is dropped from the page. Every returned item carries a freshly presigned
// access URL for its image.
//
// Inputs:
//   - ctx: The context for the request.
//   - userID: The user whose history to page.
//   - limit: The page size. Values below one fall back to
//     DefaultHistoryLimit.
//
// Outputs:
//   - *model.HistoryPage: The page items plus paging info.
//   - error: An error if the query or the presigning fails.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) (*model.HistoryPage, error) {
	if limit < 1 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.DB.Query(ctx, QryListContent, userID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]model.HistoryRecord, 0, limit+1)
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.FileKey, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	var nextCursor *string
	hasNextPage := len(records) > limit
	if hasNextPage {
		next := records[len(records)-1]
		records = records[:limit]
		nextCursor = &next.ID
	}

	items := make([]model.HistoryItem, 0, len(records))
	for _, rec := range records {
		imageURL, err := s.Signer.AccessURL(ctx, rec.FileKey)
		if err != nil {
			slog.ErrorContext(ctx, "failed to presign history image", "fileKey", rec.FileKey, "error", err)
			imageURL = ""
		}
		items = append(items, model.HistoryItem{
			ID:        rec.ID,
			FileKey:   rec.FileKey,
			ImageURL:  imageURL,
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return &model.HistoryPage{
		Items: items,
		PageInfo: model.PageInfo{
			Limit:       limit,
			NextCursor:  nextCursor,
			HasNextPage: hasNextPage,
		},
	}, nil
}

// Detail reassembles one generation from its normalized rows. A missing row
// yields model.ErrHistoryNotFound; a row owned by someone else yields
// model.ErrHistoryForbidden. Missing children take the same neutral defaults
// the normalizer uses, so old fallback rows read back consistently.
func (s *HistoryService) Detail(ctx context.Context, userID string, historyID string) (*model.HistoryDetail, error) {
	var rec model.HistoryRecord
	err := s.DB.QueryRow(ctx, QryGetContent, historyID).Scan(&rec.ID, &rec.UserID, &rec.FileKey, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query history detail: %w", err)
	}
	if rec.UserID != userID {
		return nil, model.ErrHistoryForbidden
	}

	imageURL, err := s.Signer.AccessURL(ctx, rec.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to presign history image: %w", err)
	}

	detail := &model.HistoryDetail{
		ID:       rec.ID,
		FileKey:  rec.FileKey,
		ImageURL: imageURL,
		Curation: model.Curation{IsAppropriate: true, Risk: "low", Notes: "", Labels: []string{}},
		Caption:  model.Caption{Text: "", Alternatives: []string{}},
		Songs:    []model.Song{},
		Topics:   []model.Topic{},
		Engagement: model.Engagement{
			EstimatedScore: 0.5,
			Drivers:        []string{},
			Suggestions:    []string{},
		},
		Meta: model.Meta{
			Language:    model.DefaultLanguage,
			GeneratedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		},
	}

	if err := s.loadCaption(ctx, rec.ID, detail); err != nil {
		return nil, err
	}
	if err := s.loadCuration(ctx, rec.ID, detail); err != nil {
		return nil, err
	}
	if err := s.loadEngagement(ctx, rec.ID, detail); err != nil {
		return nil, err
	}
	if err := s.loadSongs(ctx, rec.ID, detail); err != nil {
		return nil, err
	}
	if err := s.loadTopics(ctx, rec.ID, detail); err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *HistoryService) loadCaption(ctx context.Context, contentID string, detail *model.HistoryDetail) error {
	var captionID, text string
	err := s.DB.QueryRow(ctx, QryGetCaption, contentID).Scan(&captionID, &text)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query caption: %w", err)
	}
	detail.Caption.Text = text

	alts, err := s.queryStrings(ctx, QryGetCaptionAlternatives, captionID)
	if err != nil {
		return fmt.Errorf("failed to query caption alternatives: %w", err)
	}
	detail.Caption.Alternatives = alts
	return nil
}

func (s *HistoryService) loadCuration(ctx context.Context, contentID string, detail *model.HistoryDetail) error {
	var (
		curationID    string
		isAppropriate bool
		risk          string
		notes         *string
	)
	err := s.DB.QueryRow(ctx, QryGetCuration, contentID).Scan(&curationID, &isAppropriate, &risk, &notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query curation: %w", err)
	}
	detail.Curation.IsAppropriate = isAppropriate
	detail.Curation.Risk = risk
	if notes != nil {
		detail.Curation.Notes = *notes
	}

	labels, err := s.queryStrings(ctx, QryGetCurationLabels, curationID)
	if err != nil {
		return fmt.Errorf("failed to query curation labels: %w", err)
	}
	detail.Curation.Labels = labels
	return nil
}

func (s *HistoryService) loadEngagement(ctx context.Context, contentID string, detail *model.HistoryDetail) error {
	var (
		engagementID string
		score        float64
	)
	err := s.DB.QueryRow(ctx, QryGetEngagement, contentID).Scan(&engagementID, &score)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to query engagement: %w", err)
	}
	detail.Engagement.EstimatedScore = score

	drivers, err := s.queryStrings(ctx, QryGetEngagementDrivers, engagementID)
	if err != nil {
		return fmt.Errorf("failed to query engagement drivers: %w", err)
	}
	detail.Engagement.Drivers = drivers

	suggestions, err := s.queryStrings(ctx, QryGetEngagementSuggestions, engagementID)
	if err != nil {
		return fmt.Errorf("failed to query engagement suggestions: %w", err)
	}
	detail.Engagement.Suggestions = suggestions
	return nil
}

func (s *HistoryService) loadSongs(ctx context.Context, contentID string, detail *model.HistoryDetail) error {
	rows, err := s.DB.Query(ctx, QryGetSongs, contentID)
	if err != nil {
		return fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			song   model.Song
			reason *string
		)
		if err := rows.Scan(&song.Title, &song.Artist, &reason); err != nil {
			return fmt.Errorf("failed to scan song row: %w", err)
		}
		if reason != nil {
			song.Reason = *reason
		}
		detail.Songs = append(detail.Songs, song)
	}
	return rows.Err()
}

func (s *HistoryService) loadTopics(ctx context.Context, contentID string, detail *model.HistoryDetail) error {
	rows, err := s.DB.Query(ctx, QryGetTopics, contentID)
	if err != nil {
		return fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topic model.Topic
		if err := rows.Scan(&topic.Topic, &topic.Confidence); err != nil {
			return fmt.Errorf("failed to scan topic row: %w", err)
		}
		detail.Topics = append(detail.Topics, topic)
	}
	return rows.Err()
}

// queryStrings runs a single-column text query and collects the values.
func (s *HistoryService) queryStrings(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := s.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
