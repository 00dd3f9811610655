// Copyright 2026 The Cardano-Go Authors
// This file is part of ledgerstate.
//
// ledgerstate is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ledgerstate is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ledgerstate. If not, see <http://www.gnu.org/licenses/>.

package engine

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultReadConcurrency bounds read-side façades (chain summary queries,
// doctor dumps, CLI lookups) so they can never starve the single write
// path of I/O bandwidth (spec §5 "a bounded blocking pool, default
// concurrency 16").
const DefaultReadConcurrency = 16

// ReadPool admits at most N concurrently-running read tasks, each owning
// its own semaphore permit for the task's lifetime rather than sharing one
// across a batch — so one slow reader blocks only itself, never a
// neighbor that finished first and wants back in.
type ReadPool struct {
	sem *semaphore.Weighted
}

// NewReadPool builds a pool with the given concurrency. concurrency <= 0
// falls back to DefaultReadConcurrency.
func NewReadPool(concurrency int) *ReadPool {
	if concurrency <= 0 {
		concurrency = DefaultReadConcurrency
	}
	return &ReadPool{sem: semaphore.NewWeighted(int64(concurrency))}
}

// Do acquires one permit, runs fn, and releases the permit before
// returning. It blocks until a permit is free or ctx is canceled, in
// which case it returns ctx.Err() without running fn.
func (p *ReadPool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn(ctx)
}

// TryDo attempts to acquire a permit without blocking, running fn and
// reporting true if it got one, or false without running fn if the pool
// is currently saturated.
func (p *ReadPool) TryDo(fn func() error) (ran bool, err error) {
	if !p.sem.TryAcquire(1) {
		return false, nil
	}
	defer p.sem.Release(1)
	return true, fn()
}
