package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

func TestGoRunsEveryTask(t *testing.T) {
	p := workerpool.New(4)
	var n atomic.Int64
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Go(func() { n.Add(1) }))
	}
	p.Close()
	assert.EqualValues(t, 100, n.Load())
}

func TestTryRejectsWhenBacklogFull(t *testing.T) {
	p := workerpool.New(1)
	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Go(func() { close(started); <-block }))
	<-started

	// backlog holds two
	require.NoError(t, p.Try(func() {}))
	require.NoError(t, p.Try(func() {}))
	assert.ErrorIs(t, p.Try(func() {}), workerpool.ErrFull)

	close(block)
	p.Close()
}

func TestClosedPoolRejects(t *testing.T) {
	p := workerpool.New(2)
	p.Close()
	p.Close()
	assert.ErrorIs(t, p.Go(func() {}), workerpool.ErrClosed)
	assert.ErrorIs(t, p.Try(func() {}), workerpool.ErrClosed)
}

func TestPanickingTaskKeepsWorker(t *testing.T) {
	p := workerpool.New(1)
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, p.Go(func() { panic("boom") }))
	require.NoError(t, p.Go(func() { wg.Done() }))
	wg.Wait()
	p.Close()
}
