package common

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_GetOrSet(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	calls := 0
	loader := func() (any, error) {
		calls++
		return "MLE", nil
	}

	v, err := cs.GetOrSet("AIRPORT_1", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "MLE", v)

	v, err = cs.GetOrSet("AIRPORT_1", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "MLE", v)
	assert.Equal(t, 1, calls)

	cs.Delete("AIRPORT_1")
	_, found := cs.Get("AIRPORT_1")
	assert.False(t, found)
}

func TestCacheService_LoaderErrorIsNotCached(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)

	_, err := cs.GetOrSet("k", time.Minute, func() (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)

	_, found := cs.Get("k")
	assert.False(t, found)
}

func TestCacheService_GetOrSetLoadsOncePerKey(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cs.GetOrSet("AIRLINE_Q2", time.Minute, func() (any, error) {
				calls.Add(1)
				<-release
				return "Maldivian", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "Maldivian", v)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}
