package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardSleep(t *testing.T) {
	impl, err := NewStandardImpl("UTC")
	require.NoError(t, err)
	require.Equal(t, time.UTC, impl.Location())

	start := time.Now()
	require.NoError(t, impl.Sleep(context.Background(), 20*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = impl.Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFakeSleep(t *testing.T) {
	start := time.Date(2024, 4, 11, 8, 0, 0, 0, time.UTC)
	fake := NewFakeImpl(start)

	require.NoError(t, fake.Sleep(context.Background(), time.Second))
	require.NoError(t, fake.Sleep(context.Background(), 2*time.Second))

	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, fake.Sleeps())
	require.Equal(t, start.Add(3*time.Second), fake.Now())
}
