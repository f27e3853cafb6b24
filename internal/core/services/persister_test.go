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

package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kontenlab/konten-backend/internal/core/model"
	"github.com/kontenlab/konten-backend/internal/core/services"
)

// TestPersisterRunsSave verifies a scheduled save reaches the store with the
// caller's identifiers.
func TestPersisterRunsSave(t *testing.T) {
	var calls atomic.Int32
	var gotUser, gotKey string
	persister := services.NewHistoryPersister(func(_ context.Context, userID string, fileKey string, _ *model.GenerateResponse) error {
		gotUser = userID
		gotKey = fileKey
		calls.Add(1)
		return nil
	})

	persister.Persist("u1", "users/u1/a.jpg", &model.GenerateResponse{})
	persister.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, "users/u1/a.jpg", gotKey)
}

// TestPersisterSwallowsFailure verifies a failed save never propagates; the
// persister is strictly best-effort.
func TestPersisterSwallowsFailure(t *testing.T) {
	persister := services.NewHistoryPersister(func(_ context.Context, _ string, _ string, _ *model.GenerateResponse) error {
		return errors.New("connection refused")
	})

	persister.Persist("u1", "users/u1/a.jpg", &model.GenerateResponse{})
	persister.Wait()
}

// TestPersisterDetachedContext verifies the save runs under its own deadline
// rather than the request context, which is usually finished by the time the
// write happens.
func TestPersisterDetachedContext(t *testing.T) {
	var sawDeadline atomic.Bool
	persister := services.NewHistoryPersister(func(ctx context.Context, _ string, _ string, _ *model.GenerateResponse) error {
		_, ok := ctx.Deadline()
		sawDeadline.Store(ok)
		return ctx.Err()
	})

	persister.Persist("u1", "users/u1/a.jpg", &model.GenerateResponse{})
	persister.Wait()

	assert.True(t, sawDeadline.Load())
}
