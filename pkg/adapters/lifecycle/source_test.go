package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/inkwell/pkg/core"
)

func TestSource_ForwardsAndCloses(t *testing.T) {
	in := make(chan core.Event, 1)
	src := NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	in <- core.Event{Type: core.EventDelete, Key: core.KeyToken}
	select {
	case e := <-src.Events():
		assert.Contains(t, e.String(), core.KeyToken)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output closes with the input")
	case <-time.After(time.Second):
		t.Fatal("output not closed")
	}
}

func TestSource_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("output not closed after cancel")
	}
}

func TestSource_CoalescesBursts(t *testing.T) {
	in := make(chan core.Event, 4)
	src := NewSource(in, WithQuiet(50*time.Millisecond))
	require.NoError(t, src.Start(context.Background()))

	in <- core.Event{Type: core.EventWrite, Key: core.KeyToken}
	in <- core.Event{Type: core.EventWrite, Key: core.KeyUser}
	in <- core.Event{Type: core.EventWrite, Key: core.KeyToken}

	select {
	case e := <-src.Events():
		c, ok := e.(Change)
		require.True(t, ok)
		assert.Equal(t, []string{core.KeyToken, core.KeyUser}, c.Keys)
		assert.Equal(t, core.KeyToken, c.Last.Key)
	case <-time.After(time.Second):
		t.Fatal("burst not emitted")
	}

	close(in)
	_, ok := <-src.Events()
	assert.False(t, ok, "one change per burst")
}

func TestSource_FlushesPendingOnClose(t *testing.T) {
	in := make(chan core.Event, 1)
	src := NewSource(in, WithQuiet(time.Hour))
	require.NoError(t, src.Start(context.Background()))

	in <- core.Event{Type: core.EventDelete, Key: core.KeyUser}
	close(in)

	select {
	case e, ok := <-src.Events():
		require.True(t, ok)
		assert.Equal(t, "state changed: user", e.String())
	case <-time.After(time.Second):
		t.Fatal("pending burst not flushed")
	}
}
