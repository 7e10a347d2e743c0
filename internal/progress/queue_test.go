package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwt-dev/libbwt-go/pkg/engine"
)

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	for i := uint64(1); i <= 3; i++ {
		require.NoError(t, q.Send(engine.SyncProgress(0.1, i)))
	}

	for i := uint64(1); i <= 3; i++ {
		event, ok := q.Receive()
		require.True(t, ok)
		assert.Equal(t, i, event.Value)
	}
}

func TestQueue_CloseDrainsBufferedEvents(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Send(engine.ScanProgress(0.5, 10)))
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.ErrorIs(t, q.Send(engine.Done()), ErrDisconnected)

	event, ok := q.Receive()
	require.True(t, ok)
	assert.Equal(t, engine.ProgressScan, event.Kind)

	_, ok = q.Receive()
	assert.False(t, ok)
}

func TestQueue_ReceiveBlocksUntilSend(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	received := make(chan engine.Progress)
	go func() {
		event, _ := q.Receive()
		received <- event
	}()

	require.NoError(t, q.Send(engine.Done()))
	assert.Equal(t, engine.ProgressDone, (<-received).Kind)
}

func TestQueue_ConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	t.Parallel()

	const producers = 4
	const perProducer = 200

	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				// encode producer in the fraction and sequence in the value
				assert.NoError(t, q.Send(engine.SyncProgress(float32(p), uint64(i))))
			}
		}(p)
	}
	wg.Wait()
	q.Close()

	next := make(map[int]uint64)
	total := 0
	for {
		event, ok := q.Receive()
		if !ok {
			break
		}
		p := int(event.Fraction)
		assert.Equal(t, next[p], event.Value, "producer %d out of order", p)
		next[p] = event.Value + 1
		total++
	}
	assert.Equal(t, producers*perProducer, total)
}
