// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

import (
	"context"
	"runtime"

	"github.com/panjf2000/ants/v2"
)

// Handle supervises one background ingestion. Accessors block until the
// task has finished.
type Handle struct {
	done   chan struct{}
	answer string
	err    error
}

// Done is closed when the task has finished and cleanup has run.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Answer waits for completion and returns the user-facing result text.
func (h *Handle) Answer() string {
	<-h.done
	return h.answer
}

// Err waits for completion and returns the task's typed error, if any.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// scheduler runs ingestion tasks on a bounded worker pool.
type scheduler struct {
	pool *ants.Pool
}

func newScheduler(size int) (*scheduler, error) {
	if size < 1 {
		size = runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &scheduler{pool: pool}, nil
}

func (s *scheduler) release() {
	s.pool.Release()
}

// ScheduleIngestion runs the ingestion for the request on the background
// pool and returns a supervision handle. The task's status registry entry is
// created before scheduling, so a query arriving in the submission gap
// already sees the conversation as busy. Registry cleanup and temporary file
// release happen inside the task regardless of outcome.
func (a *Agent) ScheduleIngestion(ctx context.Context, state State) (*Handle, error) {
	intent := Route(state)
	switch intent {
	case IntentIngestDocument, IntentIngestURL, IntentIngestImage, IntentIngestNote:
	default:
		return nil, ErrNotIngestion
	}

	a.setPhase(ctx, state.TaskID, "Downloading...")

	handle := &Handle{done: make(chan struct{})}

	err := a.scheduler.pool.Submit(func() {
		defer close(handle.done)

		// Detached from the triggering request's lifetime.
		taskCtx := context.Background()

		answer, err := a.runIngestion(taskCtx, &state)
		handle.answer = renderAnswer(answer, err)
		handle.err = err

		if err != nil {
			a.logger.Error("background ingestion failed",
				"intent", intent.String(), "task", state.TaskID, "err", err)
			return
		}
		a.logger.Info("background ingestion finished",
			"intent", intent.String(), "task", state.TaskID)
	})
	if err != nil {
		// Never leave a stale busy entry behind.
		if state.TaskID != "" {
			if derr := a.registry.Delete(ctx, state.TaskID); derr != nil {
				a.logger.Error("failed to clear task status", "task", state.TaskID, "err", derr)
			}
		}
		return nil, err
	}

	return handle, nil
}
