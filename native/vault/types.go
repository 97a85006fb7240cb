package vault

import (
	"fmt"
	"math/big"
	"strings"
)

// VoteSide identifies which outcome a dispute ballot supports.
type VoteSide uint8

const (
	// VoteAccept backs the claim that the tracked condition occurred.
	VoteAccept VoteSide = iota + 1
	// VoteDecline rejects the claim.
	VoteDecline
)

// String returns the canonical lowercase side name.
func (s VoteSide) String() string {
	switch s {
	case VoteAccept:
		return "accept"
	case VoteDecline:
		return "decline"
	default:
		return ""
	}
}

// Valid reports whether the side value is within the supported range.
func (s VoteSide) Valid() bool {
	return s == VoteAccept || s == VoteDecline
}

// ParseVoteSide normalises a textual side selection.
func ParseVoteSide(side string) (VoteSide, error) {
	switch strings.ToLower(strings.TrimSpace(side)) {
	case "accept":
		return VoteAccept, nil
	case "decline":
		return VoteDecline, nil
	default:
		return 0, fmt.Errorf("vault: invalid vote side %q", side)
	}
}

// Dispute is the single collateralized proposal slot owned by the vault. At
// most one dispute exists at a time; a new initiation replaces the previous
// closed record and clears the vote list.
type Dispute struct {
	Initiator        [20]byte
	InitiationAmount *big.Int
	EndTime          int64
	AcceptWeight     *big.Int
	DeclineWeight    *big.Int
	Open             bool
}

// Clone returns a deep copy so callers can mutate the result without touching
// the stored record.
func (d *Dispute) Clone() *Dispute {
	if d == nil {
		return nil
	}
	clone := *d
	clone.InitiationAmount = copyBigInt(d.InitiationAmount)
	clone.AcceptWeight = copyBigInt(d.AcceptWeight)
	clone.DeclineWeight = copyBigInt(d.DeclineWeight)
	return &clone
}

// Vote is one stake-locking ballot on the current dispute. Re-voting appends
// additional entries rather than replacing earlier ones; each entry's stake is
// locked separately.
type Vote struct {
	Voter  [20]byte
	Side   VoteSide
	Weight *big.Int
}

// Clone returns a deep copy of the vote record.
func (v *Vote) Clone() *Vote {
	if v == nil {
		return nil
	}
	clone := *v
	clone.Weight = copyBigInt(v.Weight)
	return &clone
}

// Params carries the runtime knobs controlling dispute admission. Zero values
// fall back to the package defaults when applied via SetParams.
type Params struct {
	// DisputeDurationSeconds is the length of the voting window.
	DisputeDurationSeconds uint64
	// InitiationDenominator divides the outstanding iToken supply to size the
	// collateral a dispute initiator must post.
	InitiationDenominator uint64
}

const (
	// DefaultDisputeDurationSeconds is the default seven day voting window.
	DefaultDisputeDurationSeconds uint64 = 604800
	// DefaultInitiationDenominator sizes the default initiation collateral at
	// a quarter of the outstanding iToken supply.
	DefaultInitiationDenominator uint64 = 4
	// MaxDisputeDurationSeconds bounds the voting window at ten years so end
	// time arithmetic cannot overflow a unix timestamp.
	MaxDisputeDurationSeconds uint64 = 10 * 365 * 24 * 3600
	// feeDenominator fixes the flat issuance fee at 1%. Amounts below the
	// denominator pay zero fee under floor division.
	feeDenominator = 100
)

// DefaultParams returns the standard dispute policy.
func DefaultParams() Params {
	return Params{
		DisputeDurationSeconds: DefaultDisputeDurationSeconds,
		InitiationDenominator:  DefaultInitiationDenominator,
	}
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
