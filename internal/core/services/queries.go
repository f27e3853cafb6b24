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
// sources. This file centralizes the SQL statements used by the history
// service. Keeping them as constants in one place makes the persistence
// order and the read shapes easy to audit. All statements use pgx positional
// placeholders ($1, $2, ...).
package services

const (
	// QryInsertContent creates the parent row of one generation. The
	// children below all hang off the returned id.
	QryInsertContent = `INSERT INTO generated_contents (user_id, file_key) VALUES ($1, $2) RETURNING id`

	// QryInsertCaption stores the primary caption text for a content row.
	QryInsertCaption = `INSERT INTO captions (content_id, text) VALUES ($1, $2) RETURNING id`

	// QryInsertCaptionAlternative stores one alternative caption.
	QryInsertCaptionAlternative = `INSERT INTO caption_alternatives (caption_id, text) VALUES ($1, $2)`

	// QryInsertCuration stores the moderation verdict for a content row.
	QryInsertCuration = `INSERT INTO curations (content_id, is_appropriate, risk, notes) VALUES ($1, $2, $3, $4) RETURNING id`

	// QryInsertCurationLabel stores one moderation label.
	QryInsertCurationLabel = `INSERT INTO curation_labels (curation_id, label) VALUES ($1, $2)`

	// QryInsertEngagement stores the engagement estimate for a content row.
	QryInsertEngagement = `INSERT INTO engagements (content_id, estimated_score) VALUES ($1, $2) RETURNING id`

	// QryInsertEngagementDriver stores one engagement driver.
	QryInsertEngagementDriver = `INSERT INTO engagement_drivers (engagement_id, text) VALUES ($1, $2)`

	// QryInsertEngagementSuggestion stores one engagement suggestion.
	QryInsertEngagementSuggestion = `INSERT INTO engagement_suggestions (engagement_id, text) VALUES ($1, $2)`

	// QryInsertSong stores one song recommendation.
	QryInsertSong = `INSERT INTO song_recommendations (content_id, title, artist, reason) VALUES ($1, $2, $3, $4)`

	// QryInsertTopic stores one topic recommendation.
	QryInsertTopic = `INSERT INTO topic_recommendations (content_id, topic, confidence) VALUES ($1, $2, $3)`

	// QryListContent pages a user's generations, newest first. The caller
	// passes limit+1 and uses the extra row to detect the next page.
	QryListContent = `SELECT id, file_key, created_at FROM generated_contents WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	// QryGetContent looks up one generation by id, regardless of owner. The
	// service compares the owner afterwards to distinguish a missing row
	// from a foreign one.
	QryGetContent = `SELECT id, user_id, file_key, created_at FROM generated_contents WHERE id = $1`

	// QryGetCaption returns the caption row of a content, if any.
	QryGetCaption = `SELECT id, text FROM captions WHERE content_id = $1`

	// QryGetCaptionAlternatives returns the alternative captions in insert
	// order.
	QryGetCaptionAlternatives = `SELECT text FROM caption_alternatives WHERE caption_id = $1 ORDER BY id`

	// QryGetCuration returns the curation row of a content, if any.
	QryGetCuration = `SELECT id, is_appropriate, risk, notes FROM curations WHERE content_id = $1`

	// QryGetCurationLabels returns the moderation labels in insert order.
	QryGetCurationLabels = `SELECT label FROM curation_labels WHERE curation_id = $1 ORDER BY id`

	// QryGetEngagement returns the engagement row of a content, if any.
	QryGetEngagement = `SELECT id, estimated_score FROM engagements WHERE content_id = $1`

	// QryGetEngagementDrivers returns the engagement drivers in insert order.
	QryGetEngagementDrivers = `SELECT text FROM engagement_drivers WHERE engagement_id = $1 ORDER BY id`

	// QryGetEngagementSuggestions returns the engagement suggestions in
	// insert order.
	QryGetEngagementSuggestions = `SELECT text FROM engagement_suggestions WHERE engagement_id = $1 ORDER BY id`

	// QryGetSongs returns the song recommendations in insert order.
	QryGetSongs = `SELECT title, artist, reason FROM song_recommendations WHERE content_id = $1 ORDER BY id`

	// QryGetTopics returns the topic recommendations in insert order.
	QryGetTopics = `SELECT topic, confidence FROM topic_recommendations WHERE content_id = $1 ORDER BY id`
)
