package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/quartermaster-go/internal/domain/allocation"
	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
)

func TestPassCompletedRecordsReport(t *testing.T) {
	c := NewPassMetricsCollector()

	report := &convergence.PassReport{
		Map:          "colony-1",
		Duration:     25 * time.Millisecond,
		PawnsTracked: 6,
		PawnsUpdated: 3,
		EquipActions: 2,
		AmmoPickups:  1,
		Allocation: allocation.Result{
			Targets:  map[int]int{1: 2},
			Assigned: map[int]int{1: 2},
			Claimed:  2,
		},
	}
	c.PassCompleted(report)
	c.PassCompleted(report)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.passesTotal.WithLabelValues("colony-1")))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.pawnsTracked.WithLabelValues("colony-1")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.actionsTotal.WithLabelValues("colony-1", "equip")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.actionsTotal.WithLabelValues("colony-1", "ammo_pickup")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.loadoutTarget.WithLabelValues("colony-1", "1")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.pawnsClaimed.WithLabelValues("colony-1")))
}
