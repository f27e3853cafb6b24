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
// sources. This file defines the StorageService, which mints per-user object
// keys and presigns the PUT and GET URLs clients use to move image bytes
// directly against the bucket. Uploads get a short window and a size cap;
// reads get a longer one. The service also backs the generation pipeline's
// URL signer.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/kontenlab/konten-backend/internal/cloud"
	"github.com/kontenlab/konten-backend/internal/core/model"
)

// extByContentType maps the accepted image content types to the extension
// used in minted file keys.
var extByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// StorageService encapsulates the presigner and the bucket configuration
// needed for upload and access URL generation.
type StorageService struct {
	Presigner *s3.PresignClient // Presign client for the configured S3-compatible endpoint.
	Bucket    string            // Target bucket name.
	Region    string            // Bucket region, echoed to clients.
	UploadTTL time.Duration     // Validity window for upload (PUT) URLs.
	AccessTTL time.Duration     // Validity window for access (GET) URLs.
	MaxSize   int64             // Upload size cap communicated to clients, in bytes.
}

// NewStorageService is the constructor for the StorageService.
func NewStorageService(config *cloud.Config, presigner *s3.PresignClient) *StorageService {
	return &StorageService{
		Presigner: presigner,
		Bucket:    config.Storage.Bucket,
		Region:    config.Storage.Region,
		UploadTTL: time.Duration(config.Storage.UploadExpirationSeconds) * time.Second,
		AccessTTL: time.Duration(config.Storage.AccessExpirationSeconds) * time.Second,
		MaxSize:   config.Storage.MaxUploadBytes,
	}
}

// extFromContentType derives the key extension from the declared content
// type, falling back to the original file name's extension, then to "bin".
func extFromContentType(contentType string, fallbackName string) string {
	if ext, ok := extByContentType[contentType]; ok {
		return ext
	}
	if idx := strings.LastIndex(fallbackName, "."); idx >= 0 && idx < len(fallbackName)-1 {
		return fallbackName[idx+1:]
	}
	return "bin"
}

// generateFileKey mints the object key for a new upload. Keys are scoped
// under the owning user so access checks reduce to a prefix match.
func generateFileKey(userID string, contentType string, originalFileName string) string {
	ext := extFromContentType(contentType, originalFileName)
	return fmt.Sprintf("users/%s/%s.%s", userID, uuid.NewString(), ext)
}

// PresignUpload initializes an upload: it mints a fresh file key for the
// user and returns a presigned PUT URL for it, along with the bucket
// coordinates, the URL's validity window, and the size cap the client must
// honor.
//
// Inputs:
//   - ctx: The context for the request.
//   - userID: The authenticated owner of the new object.
//   - contentType: The declared content type of the upload.
//   - fileName: The client's original file name, used only as an extension
//     fallback.
//
// Outputs:
//   - *model.UploadPresign: The presigned upload descriptor.
//   - error: An error if the presign operation fails.
func (s *StorageService) PresignUpload(ctx context.Context, userID string, contentType string, fileName string) (*model.UploadPresign, error) {
	fileKey := generateFileKey(userID, contentType, fileName)

	out, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.UploadTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload for %s: %w", fileKey, err)
	}

	return &model.UploadPresign{
		UploadURL: out.URL,
		FileKey:   fileKey,
		Bucket:    s.Bucket,
		Region:    s.Region,
		ExpiresIn: int(s.UploadTTL.Seconds()),
		MaxSize:   s.MaxSize,
	}, nil
}

// PresignAccess generates a short-lived GET URL for an existing file key.
//
// Inputs:
//   - ctx: The context for the request.
//   - fileKey: The object key to grant read access to.
//
// Outputs:
//   - *model.AccessPresign: The presigned access descriptor.
//   - error: An error if the presign operation fails.
func (s *StorageService) PresignAccess(ctx context.Context, fileKey string) (*model.AccessPresign, error) {
	accessURL, err := s.AccessURL(ctx, fileKey)
	if err != nil {
		return nil, err
	}
	return &model.AccessPresign{
		AccessURL: accessURL,
		FileKey:   fileKey,
		Bucket:    s.Bucket,
		Region:    s.Region,
		ExpiresIn: int(s.AccessTTL.Seconds()),
	}, nil
}

// AccessURL presigns a bare GET URL for a file key. This is the signer the
// generation pipeline and the history reads use.
func (s *StorageService) AccessURL(ctx context.Context, fileKey string) (string, error) {
	out, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(s.AccessTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign access for %s: %w", fileKey, err)
	}
	return out.URL, nil
}
