package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/quartermaster-go/internal/domain/convergence"
)

// PassMetricsCollector records convergence pass activity. It implements
// convergence.Observer and is wired via Engine.SetObserver.
type PassMetricsCollector struct {
	passesTotal   *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	pawnsTracked  *prometheus.GaugeVec
	pawnsUpdated  *prometheus.GaugeVec
	actionsTotal  *prometheus.CounterVec
	loadoutTarget *prometheus.GaugeVec
	loadoutBound  *prometheus.GaugeVec
	pawnsClaimed  *prometheus.CounterVec
}

// NewPassMetricsCollector creates a new pass metrics collector
func NewPassMetricsCollector() *PassMetricsCollector {
	return &PassMetricsCollector{
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "passes_total",
				Help:      "Total number of convergence passes by map",
			},
			[]string{"map"},
		),
		passDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pass_duration_seconds",
				Help:      "Convergence pass duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"map"},
		),
		pawnsTracked: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pawns_tracked",
				Help:      "Pawns in the tracked pool after the last pass",
			},
			[]string{"map"},
		),
		pawnsUpdated: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pawns_updated",
				Help:      "Pawns that received equipment updates in the last pass",
			},
			[]string{"map"},
		),
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Host actions requested by the engine, by action type",
			},
			[]string{"map", "action"},
		),
		loadoutTarget: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "loadout_target_pawns",
				Help:      "Proportional-share target per loadout after the last allocation",
			},
			[]string{"map", "loadout"},
		),
		loadoutBound: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "loadout_bound_pawns",
				Help:      "Pawns bound per loadout after the last allocation",
			},
			[]string{"map", "loadout"},
		),
		pawnsClaimed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "allocation_claimed_total",
				Help:      "Pawns newly bound to a loadout by the allocator",
			},
			[]string{"map"},
		),
	}
}

// Register registers all pass metrics with the Prometheus registry
func (c *PassMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	collectors := []prometheus.Collector{
		c.passesTotal,
		c.passDuration,
		c.pawnsTracked,
		c.pawnsUpdated,
		c.actionsTotal,
		c.loadoutTarget,
		c.loadoutBound,
		c.pawnsClaimed,
	}
	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// PassCompleted implements convergence.Observer
func (c *PassMetricsCollector) PassCompleted(report *convergence.PassReport) {
	mapID := string(report.Map)

	c.passesTotal.WithLabelValues(mapID).Inc()
	c.passDuration.WithLabelValues(mapID).Observe(report.Duration.Seconds())
	c.pawnsTracked.WithLabelValues(mapID).Set(float64(report.PawnsTracked))
	c.pawnsUpdated.WithLabelValues(mapID).Set(float64(report.PawnsUpdated))

	c.actionsTotal.WithLabelValues(mapID, "equip").Add(float64(report.EquipActions))
	c.actionsTotal.WithLabelValues(mapID, "pickup").Add(float64(report.PickupActions))
	c.actionsTotal.WithLabelValues(mapID, "drop").Add(float64(report.DropActions))
	c.actionsTotal.WithLabelValues(mapID, "ammo_pickup").Add(float64(report.AmmoPickups))
	c.actionsTotal.WithLabelValues(mapID, "ammo_drop").Add(float64(report.AmmoDrops))

	for loadoutID, target := range report.Allocation.Targets {
		c.loadoutTarget.WithLabelValues(mapID, strconv.Itoa(loadoutID)).Set(float64(target))
	}
	for loadoutID, bound := range report.Allocation.Assigned {
		c.loadoutBound.WithLabelValues(mapID, strconv.Itoa(loadoutID)).Set(float64(bound))
	}
	c.pawnsClaimed.WithLabelValues(mapID).Add(float64(report.Allocation.Claimed))
}
