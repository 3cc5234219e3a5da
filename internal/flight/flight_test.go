package flight

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDo_CollapsesConcurrentCallers(t *testing.T) {
	var g Group
	var executions int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := g.Do("k", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				<-release
				return "shared", nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Wait until the first caller has registered, then let it finish.
	for !g.InFlight("k") {
		runtime.Gosched()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), executions)
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestDo_KeyReleasedAfterCompletion(t *testing.T) {
	var g Group
	var executions int32

	fn := func() (any, error) {
		atomic.AddInt32(&executions, 1)
		return nil, nil
	}
	_, _ = g.Do("k", fn)
	_, _ = g.Do("k", fn)

	assert.Equal(t, int32(2), executions)
	assert.False(t, g.InFlight("k"))
}

func TestDo_DistinctKeysRunIndependently(t *testing.T) {
	var g Group
	var executions int32
	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, _ = g.Do(key, func() (any, error) {
				atomic.AddInt32(&executions, 1)
				return key, nil
			})
		}(key)
	}
	wg.Wait()

	assert.Equal(t, int32(3), executions)
}
