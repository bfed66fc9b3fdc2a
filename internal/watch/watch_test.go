package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDebouncer(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(50 * time.Millisecond)

	for i := 0; i < 10; i++ {
		d.Debounce(func() { fired.Add(1) })
	}

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 10*time.Millisecond, "burst must collapse into one call")

	// Quiet period passed; a new burst fires again.
	d.Debounce(func() { fired.Add(1) })
	assert.Eventually(t, func() bool { return fired.Load() == 2 },
		time.Second, 10*time.Millisecond)
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(30 * time.Millisecond)

	d.Debounce(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRunRegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte("a\n1\n"), 0o644))

	var regens atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, zap.NewNop(), []string{input}, 20*time.Millisecond,
			func(context.Context) error {
				regens.Add(1)
				return nil
			})
	}()

	// Give the watcher a moment to register, then touch the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("a\n2\n"), 0o644))

	assert.Eventually(t, func() bool { return regens.Load() >= 1 },
		3*time.Second, 20*time.Millisecond)

	cancel()
	err := <-done
	assert.True(t, err == nil || errors.Is(err, context.Canceled))
}

func TestRunIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(input, []byte("a\n1\n"), 0o644))

	var regens atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, zap.NewNop(), []string{input}, 20*time.Millisecond,
			func(context.Context) error {
				regens.Add(1)
				return nil
			})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x\n"), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(0), regens.Load())

	cancel()
	<-done
}

func TestRunSerializesRegens(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte("a\n1\n"), 0o644))

	// A regeneration slower than the quiet period must never overlap the
	// next one; both would write the same output files.
	var started, inFlight, maxInFlight atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, zap.NewNop(), []string{input}, 20*time.Millisecond,
			func(context.Context) error {
				cur := inFlight.Add(1)
				if cur > maxInFlight.Load() {
					maxInFlight.Store(cur)
				}
				started.Add(1)
				time.Sleep(150 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("a\n2\n"), 0o644))
	assert.Eventually(t, func() bool { return started.Load() >= 1 },
		3*time.Second, 10*time.Millisecond)

	// Second change lands while the first regen is still sleeping.
	require.NoError(t, os.WriteFile(input, []byte("a\n3\n"), 0o644))
	assert.Eventually(t, func() bool { return started.Load() >= 2 },
		3*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return inFlight.Load() == 0 },
		3*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), maxInFlight.Load(), "regens must not overlap")

	cancel()
	err := <-done
	assert.True(t, err == nil || errors.Is(err, context.Canceled))
}

func TestRunKeepsGoingAfterRegenError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(input, []byte("a\n1\n"), 0o644))

	var regens atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, zap.NewNop(), []string{input}, 20*time.Millisecond,
			func(context.Context) error {
				regens.Add(1)
				return errors.New("transient")
			})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("a\n2\n"), 0o644))
	assert.Eventually(t, func() bool { return regens.Load() >= 1 },
		3*time.Second, 20*time.Millisecond)

	// A second change still triggers regeneration.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(input, []byte("a\n3\n"), 0o644))
	assert.Eventually(t, func() bool { return regens.Load() >= 2 },
		3*time.Second, 20*time.Millisecond)

	cancel()
	<-done
}
