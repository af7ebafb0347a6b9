package memory

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunRegistry_AcquireRelease(t *testing.T) {
	r := NewRunRegistry(time.Minute)

	assert.True(t, r.Acquire("s1"))
	assert.False(t, r.Acquire("s1"))
	assert.True(t, r.Acquire("s2"))
	assert.True(t, r.Busy("s1"))
	assert.Equal(t, 2, r.InFlight())

	r.Release("s1")
	assert.False(t, r.Busy("s1"))
	assert.True(t, r.Acquire("s1"))
}

func TestRunRegistry_ConcurrentAcquireHasOneWinner(t *testing.T) {
	r := NewRunRegistry(time.Minute)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Acquire("same") {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestRunRegistry_ExpiredEntryFreesSession(t *testing.T) {
	r := NewRunRegistry(20 * time.Millisecond)

	assert.True(t, r.Acquire("s1"))
	time.Sleep(40 * time.Millisecond)
	assert.True(t, r.Acquire("s1"))
}
