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

// Package test provides utility functions and mock data to support the
// application's test suite: a cached test configuration and sample payloads
// for the generation pipeline and the trends client.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/kontenlab/konten-backend/internal/cloud"
)

// StateManager caches the test configuration so it is loaded only once per
// test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. Reduces boilerplate in
// tests that chain several fallible setup steps.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// GetTestModelReplyText returns a model reply the way Gemini tends to
// produce it, fenced despite the raw-JSON instruction. Used to exercise the
// fence stripping and normalization stages.
func GetTestModelReplyText() string {
	return "```json\n" + `{
  "curation": {
    "isAppropriate": true,
    "labels": ["food", "coffee"],
    "risk": "low",
    "notes": "Cozy cafe flat lay, nothing objectionable."
  },
  "caption": {
    "text": "Pagi yang sempurna dimulai dari secangkir kopi.",
    "alternatives": ["Kopi dulu, kerja kemudian.", "Hari ini punya aroma kopi."]
  },
  "songs": [
    {"title": "Senja di Jakarta", "artist": "Aldi Nada", "reason": "Laid-back morning vibe"},
    {"title": "Kopi Dangdut", "artist": "Fahmi Shahab", "reason": "Literal coffee match"}
  ],
  "topics": [
    {"topic": "#kopipagi", "confidence": 0.93},
    {"topic": "#cafehopping", "confidence": 0.81}
  ],
  "engagement": {
    "estimatedScore": 0.74,
    "drivers": ["Warm tones", "Relatable morning routine"],
    "suggestions": ["Post between 7 and 9 AM", "Ask a coffee question in the caption"]
  }
}` + "\n```"
}

// GetTestAnalysisResponseText returns a design analysis reply in the shape
// the analysis service emits.
func GetTestAnalysisResponseText() string {
	return `{
  "status": 200,
  "message": "analysis complete",
  "data": {
    "isAppropriate": true,
    "curation": {
      "clutter": {"score": 0.31, "message": "Composition is clean"},
      "balance": {"score": 0.72, "message": "Slightly right-heavy"}
    }
  }
}`
}

// SetupOS points the configuration loader at the test TOML files
// (configs/.env.toml overlaid with configs/.env.test.toml).
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}
