package vault

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"claimvault/core/types"
)

const (
	// EventTypeConvert is emitted when a deposit is split into claim tokens.
	EventTypeConvert = "vault.convert"
	// EventTypeRedeem is emitted when claim tokens are burned for the base asset.
	EventTypeRedeem = "vault.redeem"
	// EventTypeDisputeInitiated is emitted when a new dispute opens.
	EventTypeDisputeInitiated = "vault.dispute.initiated"
	// EventTypeVoteCast is emitted when stake is locked behind a ballot.
	EventTypeVoteCast = "vault.dispute.vote"
	// EventTypeDisputeResolved is emitted when an expired dispute settles.
	EventTypeDisputeResolved = "vault.dispute.resolved"
)

func newConvertEvent(caller [20]byte, amount, fee, minted *big.Int) *types.Event {
	attrs := map[string]string{
		"caller": hex.EncodeToString(caller[:]),
		"amount": bigString(amount),
		"fee":    bigString(fee),
		"minted": bigString(minted),
	}
	return &types.Event{Type: EventTypeConvert, Attributes: attrs}
}

func newRedeemEvent(caller [20]byte, amount *big.Int, locked bool) *types.Event {
	attrs := map[string]string{
		"caller": hex.EncodeToString(caller[:]),
		"amount": bigString(amount),
		"locked": strconv.FormatBool(locked),
	}
	return &types.Event{Type: EventTypeRedeem, Attributes: attrs}
}

func newInitiateDisputeEvent(d *Dispute) *types.Event {
	attrs := make(map[string]string)
	if d != nil {
		attrs["initiator"] = hex.EncodeToString(d.Initiator[:])
		attrs["initiationAmount"] = bigString(d.InitiationAmount)
		attrs["endTime"] = strconv.FormatInt(d.EndTime, 10)
	}
	return &types.Event{Type: EventTypeDisputeInitiated, Attributes: attrs}
}

func newVoteEvent(v *Vote, d *Dispute) *types.Event {
	attrs := make(map[string]string)
	if v != nil {
		attrs["voter"] = hex.EncodeToString(v.Voter[:])
		attrs["side"] = v.Side.String()
		attrs["weight"] = bigString(v.Weight)
	}
	if d != nil {
		attrs["acceptWeight"] = bigString(d.AcceptWeight)
		attrs["declineWeight"] = bigString(d.DeclineWeight)
	}
	return &types.Event{Type: EventTypeVoteCast, Attributes: attrs}
}

func newResolveDisputeEvent(d *Dispute, outcome string, locked bool) *types.Event {
	attrs := map[string]string{
		"outcome": outcome,
		"locked":  strconv.FormatBool(locked),
	}
	if d != nil {
		attrs["initiator"] = hex.EncodeToString(d.Initiator[:])
		attrs["initiationAmount"] = bigString(d.InitiationAmount)
		attrs["acceptWeight"] = bigString(d.AcceptWeight)
		attrs["declineWeight"] = bigString(d.DeclineWeight)
	}
	return &types.Event{Type: EventTypeDisputeResolved, Attributes: attrs}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
