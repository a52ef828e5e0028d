package stub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fitcircle/fitcircle-client/pkg/time/stub"
)

func TestScheduler_Advance_FiresDueTimersInOrder(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	s := stub.NewScheduler(start)

	var fired []string
	s.AfterFunc(2*time.Second, func() { fired = append(fired, "second") })
	s.AfterFunc(time.Second, func() { fired = append(fired, "first") })
	s.AfterFunc(time.Minute, func() { fired = append(fired, "late") })

	s.Advance(5 * time.Second)

	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Len(t, s.Pending(), 1)
	assert.Equal(t, start.Add(5*time.Second), s.Now(context.Background()))
}

func TestScheduler_StoppedTimer_NotFired(t *testing.T) {
	s := stub.NewScheduler(time.Unix(0, 0))

	called := false
	timer := s.AfterFunc(time.Second, func() { called = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	s.Advance(time.Minute)
	assert.False(t, called)
	assert.Empty(t, s.Pending())
}
