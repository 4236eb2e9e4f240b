package countdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFiresExactlyOnce(t *testing.T) {
	var fired int32
	c := New(5, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire in time")
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, c.Remaining())
	assert.True(t, c.Expired())

	// A second Start must not fire the callback again.
	c.Start(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCountdownZeroTicksFiresImmediately(t *testing.T) {
	var fired int32
	c := New(0, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	c.Start(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCountdownCancelledBeforeExpiry(t *testing.T) {
	var fired int32
	c := New(1000, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not stop on cancellation")
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.False(t, c.Expired())
	require.Greater(t, c.Remaining(), 0)
}
