//go:build unit

package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubReaper struct {
	holdCalls  atomic.Int32
	orderCalls atomic.Int32
	holdErr    error
	orderErr   error
}

func (r *stubReaper) ReleaseExpiredHolds(context.Context) (int, error) {
	r.holdCalls.Add(1)
	return 1, r.holdErr
}

func (r *stubReaper) ExpireOverdueOrders(context.Context) (int, error) {
	r.orderCalls.Add(1)
	return 1, r.orderErr
}

func TestSweepRunsBothPasses(t *testing.T) {
	reaper := &stubReaper{}
	s := New(reaper, time.Minute, slog.Default())

	s.sweep(context.Background())

	assert.Equal(t, int32(1), reaper.holdCalls.Load())
	assert.Equal(t, int32(1), reaper.orderCalls.Load())
}

func TestSweepHoldFailureStillExpiresOrders(t *testing.T) {
	reaper := &stubReaper{holdErr: errors.New("db down")}
	s := New(reaper, time.Minute, slog.Default())

	s.sweep(context.Background())

	assert.Equal(t, int32(1), reaper.orderCalls.Load())
}

func TestStartStopsOnContextCancel(t *testing.T) {
	reaper := &stubReaper{}
	s := New(reaper, 5*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	// Let at least one tick land before cancelling.
	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
	assert.GreaterOrEqual(t, reaper.holdCalls.Load(), int32(1))
}
