package metrics

import (
	"strconv"

	"claimvault/core/events"
	"claimvault/core/types"
	"claimvault/native/vault"
)

type payloadEvent interface {
	Event() *types.Event
}

// Emitter bridges vault domain events onto the prometheus collectors. It can
// wrap a downstream emitter so metrics and other subscribers share one event
// stream.
type Emitter struct {
	metrics *VaultMetrics
	next    events.Emitter
}

// NewEmitter builds a metrics emitter forwarding to next (nil for none).
func NewEmitter(next events.Emitter) *Emitter {
	return &Emitter{metrics: Vault(), next: next}
}

// Emit implements events.Emitter.
func (e *Emitter) Emit(evt events.Event) {
	if e == nil || evt == nil {
		return
	}
	var attrs map[string]string
	if payload, ok := evt.(payloadEvent); ok {
		if typed := payload.Event(); typed != nil {
			attrs = typed.Attributes
		}
	}
	switch evt.EventType() {
	case vault.EventTypeConvert:
		e.metrics.ObserveConvert()
	case vault.EventTypeRedeem:
		e.metrics.ObserveRedeem()
	case vault.EventTypeDisputeInitiated:
		e.metrics.ObserveDisputeInitiated()
	case vault.EventTypeVoteCast:
		e.metrics.ObserveVote(attrs["side"])
	case vault.EventTypeDisputeResolved:
		e.metrics.ObserveResolution(attrs["outcome"])
	}
	if total, ok := attrs["fee"]; ok {
		if parsed, err := strconv.ParseFloat(total, 64); err == nil && parsed > 0 {
			// Gauge tracks the running total best-effort; authoritative
			// accounting lives in vault state.
			e.metrics.feesAccrued.Add(parsed)
		}
	}
	if e.next != nil {
		e.next.Emit(evt)
	}
}
