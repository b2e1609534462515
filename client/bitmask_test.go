package client

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOptionAccumulates(t *testing.T) {
	c := newTestClient(t, &fakeConnector{})

	require.Zero(t, c.Options())
	c.AddOption(1)
	c.AddOption(2)
	require.Equal(t, int32(3), c.Options())

	// Adding a flag twice is a no-op.
	c.AddOption(2)
	require.Equal(t, int32(3), c.Options())
}

func TestAddOptionConcurrent(t *testing.T) {
	c := newTestClient(t, &fakeConnector{})

	const bits = 16
	var wg sync.WaitGroup
	for i := 0; i < bits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.AddOption(1 << i)
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1<<bits-1), c.Options())
}

func TestLegacyFlagConstants(t *testing.T) {
	c := newTestClient(t, &fakeConnector{})

	c.AddOption(OptionSecondaryOK)
	c.AddOption(OptionNoCursorTimeout)
	require.Equal(t, OptionSecondaryOK|OptionNoCursorTimeout, c.Options())
}
