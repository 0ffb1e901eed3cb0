package dialog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreatesEmptyContextLazily(t *testing.T) {
	var created int
	store := NewStore(func() Context {
		created++
		return NewWeatherContext()
	})

	ctx := store.Get("alice")
	assert.True(t, ctx.IsEmpty())
	assert.Equal(t, 1, created)

	// Second access reuses the entry.
	store.Get("alice")
	assert.Equal(t, 1, created)
}

func TestStoreMergeAccumulatesAcrossTurns(t *testing.T) {
	store := NewStore(NewWeatherContext)

	first, err := store.Merge("bob", WeatherDelta(KnownCity(Moscow), nil, nil))
	require.NoError(t, err)
	assert.False(t, first.IsComplete())

	second, err := store.Merge("bob", WeatherDelta(nil, nil, intPtr(1)))
	require.NoError(t, err)
	assert.True(t, second.IsComplete())
	assert.Equal(t, Moscow, second.City.Name)
	assert.Equal(t, 1, *second.DateOffset)
}

func TestStoreMergeRejectsKindMismatchAndKeepsEntry(t *testing.T) {
	store := NewStore(NewWeatherContext)

	_, err := store.Merge("carol", WeatherDelta(KnownCity(Moscow), nil, nil))
	require.NoError(t, err)

	_, err = store.Merge("carol", Context{kind: "smalltalk"})
	require.ErrorIs(t, err, ErrKindMismatch)

	// The stored context survives the failed merge.
	assert.Equal(t, Moscow, store.Get("carol").City.Name)
}

func TestStoreClearResetsToEmpty(t *testing.T) {
	store := NewStore(NewWeatherContext)

	_, err := store.Merge("dave", WeatherDelta(KnownCity(SaintPetersburg), nil, intPtr(0)))
	require.NoError(t, err)
	require.True(t, store.Get("dave").IsComplete())

	store.Clear("dave")
	assert.True(t, store.Get("dave").IsEmpty())
}

func TestStoreUsersAreIndependent(t *testing.T) {
	store := NewStore(NewWeatherContext)

	_, err := store.Merge("eve", WeatherDelta(KnownCity(Moscow), nil, nil))
	require.NoError(t, err)

	assert.True(t, store.Get("frank").IsEmpty())
	store.Clear("frank")
	assert.Equal(t, Moscow, store.Get("eve").City.Name)
}

func TestStoreConcurrentMergesForOneUser(t *testing.T) {
	store := NewStore(NewWeatherContext)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			offset := n % 3
			_, err := store.Merge("grace", WeatherDelta(KnownCity(Moscow), nil, &offset))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	final := store.Get("grace")
	require.True(t, final.IsComplete())
	// Whichever merge won first, the slot was written exactly once and
	// holds a value some goroutine proposed.
	assert.Equal(t, Moscow, final.City.Name)
	assert.Contains(t, []int{0, 1, 2}, *final.DateOffset)
}
