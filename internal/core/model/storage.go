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

// Package model defines the core data structures for the application. This
// file holds the request and response shapes of the object-storage presign
// endpoints.
package model

// UploadPresignRequest is the body of the upload-presign endpoint.
// ContentType decides the minted key's extension; FileName is only a
// fallback for unknown content types.
type UploadPresignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType" binding:"required"`
}

// AccessURLRequest is the body of the access-presign endpoint.
type AccessURLRequest struct {
	FileKey string `json:"fileKey" binding:"required"`
}

// UploadPresign is returned when an upload is initialized: the presigned PUT
// URL plus the minted file key the client must reference afterwards. The
// access URL is deliberately not included here; it is generated on read.
type UploadPresign struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	ExpiresIn int    `json:"expiresIn"`
	MaxSize   int64  `json:"maxSize"`
}

// AccessPresign is the short-lived read URL for an existing file key.
type AccessPresign struct {
	AccessURL string `json:"accessUrl"`
	FileKey   string `json:"fileKey"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	ExpiresIn int    `json:"expiresIn"`
}
