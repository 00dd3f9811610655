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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadPoolBoundsConcurrency(t *testing.T) {
	pool := NewReadPool(2)
	var inFlight, maxInFlight int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Do(context.Background(), func(ctx context.Context) error {
				cur := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&maxInFlight)
					if cur <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, cur) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(2))
}

func TestReadPoolDoRespectsCancellation(t *testing.T) {
	pool := NewReadPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := pool.Do(ctx, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.Error(t, err)
	require.False(t, ran)
}

func TestReadPoolTryDoReportsSaturation(t *testing.T) {
	pool := NewReadPool(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = pool.Do(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ran, err := pool.TryDo(func() error { return nil })
	require.NoError(t, err)
	require.False(t, ran)

	close(release)
}

func TestDefaultReadConcurrencyFallback(t *testing.T) {
	pool := NewReadPool(0)
	require.NotNil(t, pool)
}
