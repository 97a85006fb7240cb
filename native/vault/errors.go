package vault

import "errors"

var (
	// ErrInsufficientBalance is returned when a redemption burn cannot be
	// satisfied by the caller's claim token holdings.
	ErrInsufficientBalance = errors.New("vault: insufficient claim token balance")
	// ErrInsufficientAllowanceOrBalance is returned when a collaborator asset
	// pull into vault custody cannot complete.
	ErrInsufficientAllowanceOrBalance = errors.New("vault: insufficient allowance or balance")
	// ErrDisputeAlreadyOpen is returned when a dispute slot is occupied by an
	// open dispute.
	ErrDisputeAlreadyOpen = errors.New("vault: dispute already open")
	// ErrDisputeNotOpen is returned when vote or resolve targets a vault with
	// no open dispute.
	ErrDisputeNotOpen = errors.New("vault: no open dispute")
	// ErrVotingClosed is returned when a ballot arrives after the dispute end
	// time.
	ErrVotingClosed = errors.New("vault: voting period closed")
	// ErrVotingStillActive is returned when resolution is attempted before
	// the dispute end time has elapsed.
	ErrVotingStillActive = errors.New("vault: voting still active")
	// ErrNoFeesOwed is returned when a fee withdrawal computes a zero share.
	ErrNoFeesOwed = errors.New("vault: no fees owed")
	// ErrNoRewardOwed is returned when a reward withdrawal finds a drained
	// balance.
	ErrNoRewardOwed = errors.New("vault: no reward owed")

	errStateNotConfigured  = errors.New("vault: state not configured")
	errAssetsNotConfigured = errors.New("vault: collaborator assets not configured")
	errTokensNotConfigured = errors.New("vault: claim tokens not configured")
)
