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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, and the clients for the external services the
// server depends on: object storage, the generative model, the design
// analysis service, the trends upstream, and Postgres.
//
// This file centralizes all configuration-related structs, making it easy
// to understand and manage the application's configurable parameters.
//
// Structs:
//   - Server: HTTP listener and CORS settings.
//   - Storage: S3-compatible object storage and presign policy.
//   - Database: Postgres connection settings.
//   - Analysis: The external design analysis service.
//   - Trends: Trends upstream geo and cache TTLs.
//   - Auth: Session token verification.
//   - GenAI: Generative API credentials.
//   - GeminiModel: Per-model generation parameters and rate limit.
//   - Config: The top-level struct that aggregates everything above.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the content safety thresholds applied to the
// generative models. The moderation verdict is part of the model's own output
// (the curation task), so the built-in blockers are left open to keep flagged
// images flowing through the pipeline instead of erroring out.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Server holds the HTTP listener settings.
type Server struct {
	Port           int      `toml:"port"`            // The TCP port the gin engine listens on.
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins. Empty means allow all (development).
}

// Storage holds the S3-compatible object storage settings and the presign
// policy used by the upload flow.
type Storage struct {
	Endpoint                string `toml:"endpoint"`                  // Custom endpoint, e.g. a MinIO or IDCloudHost URL.
	Region                  string `toml:"region"`                    // Bucket region.
	Bucket                  string `toml:"bucket"`                    // Bucket name for user uploads.
	AccessKeyID             string `toml:"access_key_id"`             // Static credential id. Supports ${ENV_VAR} references.
	SecretAccessKey         string `toml:"secret_access_key"`         // Static credential secret. Supports ${ENV_VAR} references.
	UploadExpirationSeconds int    `toml:"upload_expiration_seconds"` // Lifetime of presigned PUT URLs.
	AccessExpirationSeconds int    `toml:"access_expiration_seconds"` // Lifetime of presigned GET URLs.
	MaxUploadBytes          int64  `toml:"max_upload_bytes"`          // Client-side upload size cap advertised in presign responses.
}

// Database holds the Postgres connection settings.
type Database struct {
	URL string `toml:"url"` // pgx connection string. Supports ${ENV_VAR} references.
}

// Analysis holds the settings for the external design analysis service.
// An empty BaseURL means the service is not configured; the generation
// pipeline then produces its fallback result without calling the model.
type Analysis struct {
	BaseURL        string `toml:"base_url"`        // Service base URL, e.g. "https://analyzer.internal".
	APIKey         string `toml:"api_key"`         // Sent as the x-api-key header. Supports ${ENV_VAR} references.
	TimeoutSeconds int    `toml:"timeout_seconds"` // Per-request budget.
}

// Trends holds the trends upstream settings and cache TTLs.
type Trends struct {
	Geo                 string `toml:"geo"`                   // Geo code for all trend queries, e.g. "ID".
	KeywordCacheMinutes int    `toml:"keyword_cache_minutes"` // TTL for interest-over-time and related-query entries.
	DailyCacheMinutes   int    `toml:"daily_cache_minutes"`   // TTL for the daily trends entry.
	TimeoutSeconds      int    `toml:"timeout_seconds"`       // Per-request budget for upstream calls.
}

// Auth holds session token verification settings.
type Auth struct {
	JWTSecret string `toml:"jwt_secret"` // HMAC secret for bearer tokens. Supports ${ENV_VAR} references.
}

// GenAI holds the generative API credentials.
type GenAI struct {
	APIKey string `toml:"api_key"` // Gemini API key. Supports ${ENV_VAR} references.
}

// GeminiModel represents the configuration for one generative model profile.
type GeminiModel struct {
	Model              string  `toml:"model"`               // The model name, e.g. "gemini-2.0-flash".
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the model.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter.
	TopP               float32 `toml:"top_p"`               // The top_p parameter.
	TopK               float32 `toml:"top_k"`               // The top_k parameter.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of output tokens.
	OutputFormat       string  `toml:"output_format"`       // The response MIME type, e.g. "application/json".
	RateLimit          int     `toml:"rate_limit"`          // Requests per second allowed for this model.
}

// ImageFetch holds the budget for downloading the image behind a presigned
// URL before it is handed to the model.
type ImageFetch struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other configuration
// structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name string `toml:"name"` // The name of the application, used in telemetry.
	} `toml:"application"`
	Server      Server                 `toml:"server"`       // HTTP listener configuration.
	Storage     Storage                `toml:"storage"`      // Object storage configuration.
	Database    Database               `toml:"database"`     // Postgres configuration.
	Analysis    Analysis               `toml:"analysis"`     // Design analysis service configuration.
	Trends      Trends                 `toml:"trends"`       // Trends upstream configuration.
	Auth        Auth                   `toml:"auth"`         // Session token configuration.
	GenAI       GenAI                  `toml:"genai"`        // Generative API credentials.
	ImageFetch  ImageFetch             `toml:"image_fetch"`  // Image download budget.
	AgentModels map[string]GeminiModel `toml:"agent_models"` // Generative model profiles, keyed by a logical name (e.g. "content-flash").
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The map fields must be initialized before the TOML decoder tries
// to populate them.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]GeminiModel),
	}
}
