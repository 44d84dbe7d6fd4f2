package breaker_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/libraflow/borrowing-service/pkg/breaker"
)

func TestBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("broker down") }

	t.Run("stays closed on successes", func(t *testing.T) {
		b := breaker.New(10, time.Second, 0.3, 3)
		for i := 0; i < 50; i++ {
			require.NoError(t, b.Call(ok))
		}
	})

	t.Run("opens after failure threshold", func(t *testing.T) {
		b := breaker.New(10, time.Minute, 0.3, 3)
		for i := 0; i < 4; i++ {
			require.Error(t, b.Call(fail))
		}
		err := b.Call(ok)
		require.ErrorIs(t, err, breaker.ErrOpen)
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		b := breaker.New(4, 10*time.Millisecond, 0.5, 2)
		for i := 0; i < 3; i++ {
			_ = b.Call(fail)
		}
		require.ErrorIs(t, b.Call(ok), breaker.ErrOpen)

		time.Sleep(20 * time.Millisecond)
		// half-open now lets calls through; enough successes close it
		for i := 0; i < 4; i++ {
			require.NoError(t, b.Call(ok))
		}
		require.NoError(t, b.Call(ok))
	})

	t.Run("closes after exactly recoveryCalls successes", func(t *testing.T) {
		b := breaker.New(4, 10*time.Millisecond, 0.5, 2)
		for i := 0; i < 3; i++ {
			_ = b.Call(fail)
		}
		require.ErrorIs(t, b.Call(ok), breaker.ErrOpen)

		time.Sleep(20 * time.Millisecond)
		require.NoError(t, b.Call(ok))
		require.NoError(t, b.Call(ok))
		// closed now with a fresh window: one failure must not trip it
		// back open, which it would if the breaker were still half-open
		require.Error(t, b.Call(fail))
		require.NoError(t, b.Call(ok))
	})

	t.Run("reset closes the breaker", func(t *testing.T) {
		b := breaker.New(4, time.Minute, 0.5, 2)
		for i := 0; i < 4; i++ {
			_ = b.Call(fail)
		}
		require.ErrorIs(t, b.Call(ok), breaker.ErrOpen)
		b.Reset()
		require.NoError(t, b.Call(ok))
	})

	t.Run("reset is safe alongside calls", func(t *testing.T) {
		b := breaker.New(10, time.Minute, 0.5, 2)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					_ = b.Call(ok)
				}
			}()
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					b.Reset()
				}
			}()
		}
		wg.Wait()
		require.NoError(t, b.Call(ok))
	})
}
