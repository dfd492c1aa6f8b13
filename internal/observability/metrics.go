package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	pointsAppliedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellness_service",
		Subsystem: "ledger",
		Name:      "points_applied_total",
		Help:      "Points credited to users, labeled by source (exercise or challenge).",
	}, []string{"source"})

	teamUpdateFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wellness_service",
		Subsystem: "ledger",
		Name:      "team_update_failures_total",
		Help:      "Best-effort team aggregate updates that failed after the user write committed.",
	})

	redemptionCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wellness_service",
		Subsystem: "rewards",
		Name:      "redemptions_total",
		Help:      "Number of successful reward redemptions.",
	})

	pointsSpentCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wellness_service",
		Subsystem: "rewards",
		Name:      "points_spent_total",
		Help:      "Total points debited through redemptions.",
	})

	ledgerWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wellness_service",
		Subsystem: "persistence",
		Name:      "last_ledger_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent ledger write persisted to Postgres.",
	})
)

func init() {
	prometheus.MustRegister(pointsAppliedCounter, teamUpdateFailureCounter, redemptionCounter, pointsSpentCounter, ledgerWriteGauge)
}

// RecordPointsApplied counts points credited from the given source.
func RecordPointsApplied(source string, points int) {
	pointsAppliedCounter.WithLabelValues(source).Add(float64(points))
}

// RecordTeamUpdateFailure counts a failed best-effort team aggregate update.
func RecordTeamUpdateFailure() {
	teamUpdateFailureCounter.Inc()
}

// RecordRedemption counts a successful redemption and the points it spent.
func RecordRedemption(pointsSpent int) {
	redemptionCounter.Inc()
	pointsSpentCounter.Add(float64(pointsSpent))
}

// RecordLedgerWrite updates the persistence watermark gauge.
func RecordLedgerWrite(ts time.Time) {
	if ts.IsZero() {
		return
	}
	ledgerWriteGauge.Set(float64(ts.Unix()))
}
