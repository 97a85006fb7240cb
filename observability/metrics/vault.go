package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// VaultMetrics aggregates the prometheus collectors tracking vault activity.
type VaultMetrics struct {
	converts    prometheus.Counter
	redeems     prometheus.Counter
	disputes    prometheus.Counter
	votes       *prometheus.CounterVec
	resolutions *prometheus.CounterVec
	feesAccrued prometheus.Gauge
}

var (
	vaultOnce     sync.Once
	vaultRegistry *VaultMetrics
)

// Vault returns the process-wide vault metrics registry, registering the
// collectors on first use.
func Vault() *VaultMetrics {
	vaultOnce.Do(func() {
		vaultRegistry = &VaultMetrics{
			converts: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_converts_total",
				Help: "Count of successful base asset conversions.",
			}),
			redeems: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_redeems_total",
				Help: "Count of successful claim token redemptions.",
			}),
			disputes: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vault_disputes_initiated_total",
				Help: "Count of disputes opened against the vault.",
			}),
			votes: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_dispute_votes_total",
				Help: "Count of dispute ballots by side.",
			}, []string{"side"}),
			resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vault_dispute_resolutions_total",
				Help: "Count of dispute resolutions by outcome.",
			}, []string{"outcome"}),
			feesAccrued: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vault_fees_accrued",
				Help: "Cumulative issuance fees ever collected by the vault.",
			}),
		}
		prometheus.MustRegister(
			vaultRegistry.converts,
			vaultRegistry.redeems,
			vaultRegistry.disputes,
			vaultRegistry.votes,
			vaultRegistry.resolutions,
			vaultRegistry.feesAccrued,
		)
	})
	return vaultRegistry
}

// ObserveConvert records a completed conversion.
func (m *VaultMetrics) ObserveConvert() {
	if m == nil {
		return
	}
	m.converts.Inc()
}

// ObserveRedeem records a completed redemption.
func (m *VaultMetrics) ObserveRedeem() {
	if m == nil {
		return
	}
	m.redeems.Inc()
}

// ObserveDisputeInitiated records a newly opened dispute.
func (m *VaultMetrics) ObserveDisputeInitiated() {
	if m == nil {
		return
	}
	m.disputes.Inc()
}

// ObserveVote records a ballot for the given side.
func (m *VaultMetrics) ObserveVote(side string) {
	if m == nil || side == "" {
		return
	}
	m.votes.WithLabelValues(side).Inc()
}

// ObserveResolution records a dispute settlement outcome.
func (m *VaultMetrics) ObserveResolution(outcome string) {
	if m == nil || outcome == "" {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

// SetFeesAccrued updates the cumulative fee gauge.
func (m *VaultMetrics) SetFeesAccrued(total float64) {
	if m == nil {
		return
	}
	m.feesAccrued.Set(total)
}
