package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HorseArcher567/octolog/pkg/xlog"
)

func waitForCancel(ctx context.Context, _ *xlog.Logger) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestAddJobValidation(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.AddJob(&Job{Func: waitForCancel}))
	assert.Error(t, s.AddJob(&Job{Name: "x"}))
	require.NoError(t, s.AddJob(&Job{Name: "x", Func: waitForCancel}))
	assert.Equal(t, []string{"x"}, s.Jobs())
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewScheduler(xlog.Discard())
	require.NoError(t, s.AddJob(&Job{Name: "a", Func: waitForCancel}))
	require.NoError(t, s.AddJob(&Job{Name: "b", Func: waitForCancel}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunFailureCancelsOthers(t *testing.T) {
	boom := errors.New("boom")
	s := NewScheduler(xlog.Discard())
	require.NoError(t, s.AddJob(&Job{Name: "waiter", Func: waitForCancel}))
	require.NoError(t, s.AddJob(&Job{Name: "broken", Func: func(context.Context, *xlog.Logger) error {
		return boom
	}}))

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job broken")
}
