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
// sources. This file defines the HistoryPersister, the fire-and-forget
// bridge between the generation pipeline and the history store. Persistence
// must never delay or fail a generation response, so each save runs in its
// own goroutine with a fresh deadline detached from the request context, and
// failures are only logged.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kontenlab/konten-backend/internal/core/model"
)

// persistTimeout bounds one detached save.
const persistTimeout = 30 * time.Second

// SaveFunc matches HistoryService.Save. Tests substitute fakes.
type SaveFunc func(ctx context.Context, userID string, fileKey string, result *model.GenerateResponse) error

// HistoryPersister schedules best-effort history writes.
type HistoryPersister struct {
	save    SaveFunc
	pending sync.WaitGroup
}

// NewHistoryPersister is the constructor for the HistoryPersister.
func NewHistoryPersister(save SaveFunc) *HistoryPersister {
	return &HistoryPersister{save: save}
}

// Persist schedules one save and returns immediately. The write carries its
// own timeout so an already-finished request context cannot cancel it. A
// failed write is logged and otherwise swallowed.
func (p *HistoryPersister) Persist(userID string, fileKey string, result *model.GenerateResponse) {
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := p.save(ctx, userID, fileKey, result); err != nil {
			slog.Error("failed to save history to database", "userId", userID, "fileKey", fileKey, "error", err)
			return
		}
		slog.Info("history saved to database successfully", "userId", userID, "fileKey", fileKey)
	}()
}

// Wait blocks until every scheduled save has finished. Used on shutdown and
// in tests.
func (p *HistoryPersister) Wait() {
	p.pending.Wait()
}
