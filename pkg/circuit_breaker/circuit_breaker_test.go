package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()
	errService := errors.New("service error")
	ok := func() error { return nil }
	fail := func() error { return errService }

	cfg := circuit_breaker.Config{
		RecordLength:     10,
		Timeout:          2 * time.Second,
		Percentile:       0.3,
		RecoveryRequests: 2,
	}

	t.Run("stays closed on success", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		cb := circuit_breaker.NewWithClock(cfg, clock.Now)
		for i := 0; i < 50; i++ {
			require.NoError(t, cb.Call(ok))
		}
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("opens, half-opens and recovers", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		cb := circuit_breaker.NewWithClock(cfg, clock.Now)

		for i := 0; i < 3; i++ {
			require.ErrorIs(t, cb.Call(fail), errService)
		}
		require.Equal(t, circuit_breaker.Open, cb.State())
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

		clock.t = clock.t.Add(3 * time.Second)
		require.NoError(t, cb.Call(ok))
		require.Equal(t, circuit_breaker.HalfOpen, cb.State())
		require.NoError(t, cb.Call(ok))
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{t: time.Unix(0, 0)}
		cb := circuit_breaker.NewWithClock(cfg, clock.Now)

		for i := 0; i < 3; i++ {
			_ = cb.Call(fail)
		}
		clock.t = clock.t.Add(3 * time.Second)
		require.ErrorIs(t, cb.Call(fail), errService)
		require.Equal(t, circuit_breaker.Open, cb.State())

		cb.Reset()
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})
}
