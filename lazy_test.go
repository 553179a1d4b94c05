package infs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyInitializesOnce(t *testing.T) {
	t.Parallel()

	buf := buildArchive(t, []testFile{{path: "a.txt", data: []byte("x")}})
	load := Lazy(buf)

	const goroutines = 16
	results := make([]*Archive, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = load()
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, a := range results[1:] {
		assert.Same(t, results[0], a)
	}

	got, err := results[0].ReadFile("a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestMustNewPanicsOnInvalidBuffer(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustNew([]byte("not an archive"))
	})
}

func TestLazyPanicsOnInvalidBuffer(t *testing.T) {
	t.Parallel()

	load := Lazy([]byte("garbage"))
	assert.Panics(t, func() { load() })
	// A failed initialization is fatal; subsequent calls repeat the panic
	// rather than observing a different outcome.
	assert.Panics(t, func() { load() })
}
