package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/quartermaster-go/internal/domain/scheduler"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
	"github.com/andrescamacho/quartermaster-go/test/helpers"
)

func newScheduler(h *helpers.Harness, cfg scheduler.Config) *scheduler.Scheduler {
	return scheduler.New(h.Engine, h.World, cfg, h.Log)
}

func TestTickModulusGate(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6, TickModulus: 100})

	h.Clock.Current = shared.GameTime(101)
	assert.Nil(t, s.Tick(h.Clock.Now()))

	h.Clock.Current = shared.GameTime(200)
	assert.NotNil(t, s.Tick(h.Clock.Now()))
}

func TestZeroModulusDisablesGate(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6, TickModulus: 0})

	h.Clock.Current = shared.GameTime(101)
	assert.NotNil(t, s.Tick(h.Clock.Now()))
}

func TestPlayerHomeAndPauseGates(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6})

	h.World.SetPlayerHome(false)
	assert.Nil(t, s.Tick(h.Clock.Now()))

	h.World.SetPlayerHome(true)
	h.World.SetPaused(true)
	assert.Nil(t, s.Tick(h.Clock.Now()))

	h.World.SetPaused(false)
	assert.NotNil(t, s.Tick(h.Clock.Now()))
}

func TestIntervalGate(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6})

	require.NotNil(t, s.Tick(h.Clock.Now()))

	h.Clock.AdvanceHours(3)
	assert.Nil(t, s.Tick(h.Clock.Now()))

	h.Clock.AdvanceHours(3)
	assert.NotNil(t, s.Tick(h.Clock.Now()))
}

func TestForceBypassesGatesAndResetsInterval(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6})
	h.World.SetPaused(true)

	report := s.Force(h.Clock.Now())
	require.NotNil(t, report)

	last, ok := s.LastPass()
	require.True(t, ok)
	assert.Equal(t, h.Clock.Now(), last)

	// The forced pass counts as the interval anchor.
	h.World.SetPaused(false)
	h.Clock.AdvanceHours(3)
	assert.Nil(t, s.Tick(h.Clock.Now()))
}

func TestLastPassBeforeAnyRun(t *testing.T) {
	h := helpers.NewHarness()
	s := newScheduler(h, scheduler.Config{PassIntervalHours: 6})

	_, ok := s.LastPass()
	assert.False(t, ok)
}
