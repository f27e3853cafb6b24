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

import "errors"

// Sentinel errors of the generation and trends domains. Handlers translate
// these into the HTTP error envelope; everything else maps to a 500. The
// Indonesian messages are user-facing and surface verbatim in responses.
var (
	// ErrImageInaccessible: the presigned image URL could not be fetched.
	ErrImageInaccessible = errors.New("Image URL not accessible")

	// ErrAnalysisUnavailable: the design analysis service is configured but
	// failed to respond.
	ErrAnalysisUnavailable = errors.New("Layanan Analisis Desain sedang tidak tersedia. Coba lagi nanti.")

	// ErrAIEmptyResponse: the generative model returned no text candidate.
	ErrAIEmptyResponse = errors.New("AI returns empty response")

	// ErrAIResponseUnparsable: the model's reply was not valid JSON after
	// fence stripping. Wrapped with a short snippet of the offending text.
	ErrAIResponseUnparsable = errors.New("Failed to parse AI response")

	// ErrModerationRejected: the curation verdict flagged the image as
	// inappropriate with high risk.
	ErrModerationRejected = errors.New("Gambar tidak sesuai kriteria (Inappropriate).")

	// ErrHistoryNotFound: no generation run exists with the requested id.
	ErrHistoryNotFound = errors.New("History not found")

	// ErrHistoryForbidden: the run exists but belongs to another user.
	ErrHistoryForbidden = errors.New("Unauthorized Access")

	// ErrTrendsRateLimited: the trends upstream is throttling us.
	ErrTrendsRateLimited = errors.New("Terlalu banyak permintaan ke Google. Silakan coba lagi beberapa saat.")

	// ErrTrendsNoData: the upstream answered but with a structurally empty
	// payload. Never cached.
	ErrTrendsNoData = errors.New("Tidak ada data tren yang ditemukan untuk kata kunci ini.")

	// ErrTrendsNoRelated: the related-queries lookup came back empty.
	ErrTrendsNoRelated = errors.New("Tidak ada data kata kunci terkait yang ditemukan.")

	// ErrTrendsNoDaily: no daily trending searches were found.
	ErrTrendsNoDaily = errors.New("Tidak ada tren harian yang ditemukan saat ini.")
)
