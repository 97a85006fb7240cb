package vault

import (
	"fmt"
	"math/big"
)

// Dispute resolution outcomes carried on the resolve event.
const (
	OutcomeAccepted = "accepted"
	OutcomeDeclined = "declined"
	// OutcomeNoVotes marks a dispute that expired without a single ballot.
	// The initiation collateral is refunded and the lock state is unchanged.
	OutcomeNoVotes = "novotes"
)

// InitiateDispute opens a new dispute claiming the tracked condition occurred.
// The caller posts collateral equal to the outstanding iToken supply divided
// by the initiation denominator. Fails while a dispute is already open.
func (e *Engine) InitiateDispute(caller [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	current, ok, err := e.state.Dispute()
	if err != nil {
		return err
	}
	if ok && current.Open {
		return ErrDisputeAlreadyOpen
	}
	denominator := new(big.Int).SetUint64(e.params.InitiationDenominator)
	initiationAmount := new(big.Int).Div(e.iToken.TotalSupply(), denominator)
	if err := e.base.TransferFrom(e.address, caller, e.address, initiationAmount); err != nil {
		return pullErr(err)
	}
	endTime := e.now() + int64(e.params.DisputeDurationSeconds)
	dispute := &Dispute{
		Initiator:        caller,
		InitiationAmount: initiationAmount,
		EndTime:          endTime,
		AcceptWeight:     big.NewInt(0),
		DeclineWeight:    big.NewInt(0),
		Open:             true,
	}
	if err := e.state.ClearVotes(); err != nil {
		return err
	}
	if err := e.state.PutDispute(dispute); err != nil {
		return err
	}
	e.emit(newInitiateDisputeEvent(dispute))
	return nil
}

// Vote locks governance asset stake behind one side of the open dispute.
// Re-voting is additive: each call pulls and locks fresh stake and appends a
// separate ballot entry.
func (e *Engine) Vote(caller [20]byte, side VoteSide, weight *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if !side.Valid() {
		return fmt.Errorf("vault: invalid vote side %d", side)
	}
	if weight == nil || weight.Sign() <= 0 {
		return fmt.Errorf("vault: vote weight must be positive")
	}
	dispute, ok, err := e.state.Dispute()
	if err != nil {
		return err
	}
	if !ok || !dispute.Open {
		return ErrDisputeNotOpen
	}
	if e.now() > dispute.EndTime {
		return ErrVotingClosed
	}
	if err := e.governance.TransferFrom(e.address, caller, e.address, weight); err != nil {
		return pullErr(err)
	}
	vote := &Vote{Voter: caller, Side: side, Weight: new(big.Int).Set(weight)}
	if err := e.state.AppendVote(vote); err != nil {
		return err
	}
	switch side {
	case VoteAccept:
		dispute.AcceptWeight = new(big.Int).Add(dispute.AcceptWeight, weight)
	case VoteDecline:
		dispute.DeclineWeight = new(big.Int).Add(dispute.DeclineWeight, weight)
	}
	if err := e.state.PutDispute(dispute); err != nil {
		return err
	}
	e.emit(newVoteEvent(vote, dispute))
	return nil
}

// ResolveDispute tallies the expired dispute and settles stakes. A strict
// accept majority refunds the initiator, redistributes the decline stake to
// accept voters pro rata and unlocks the vault once and for all. A decline
// win or tie redistributes the accept stake and the initiation collateral to
// decline voters pro rata. A dispute with no ballots refunds the initiator
// and leaves the lock state untouched.
func (e *Engine) ResolveDispute(caller [20]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	dispute, ok, err := e.state.Dispute()
	if err != nil {
		return err
	}
	if !ok || !dispute.Open {
		return ErrDisputeNotOpen
	}
	if e.now() <= dispute.EndTime {
		return ErrVotingStillActive
	}
	votes, err := e.state.Votes()
	if err != nil {
		return err
	}

	accept := copyBigInt(dispute.AcceptWeight)
	decline := copyBigInt(dispute.DeclineWeight)
	var outcome string
	switch {
	case accept.Sign() == 0 && decline.Sign() == 0:
		if err := e.base.Transfer(e.address, dispute.Initiator, dispute.InitiationAmount); err != nil {
			return err
		}
		outcome = OutcomeNoVotes
	case accept.Cmp(decline) > 0:
		if err := e.base.Transfer(e.address, dispute.Initiator, dispute.InitiationAmount); err != nil {
			return err
		}
		if err := e.rewardWinners(votes, VoteAccept, decline, accept, nil); err != nil {
			return err
		}
		if err := e.state.SetLocked(false); err != nil {
			return err
		}
		outcome = OutcomeAccepted
	default:
		if err := e.rewardWinners(votes, VoteDecline, accept, decline, dispute.InitiationAmount); err != nil {
			return err
		}
		outcome = OutcomeDeclined
	}

	dispute.Open = false
	if err := e.state.PutDispute(dispute); err != nil {
		return err
	}
	locked, err := e.state.Locked()
	if err != nil {
		return err
	}
	e.emit(newResolveDisputeEvent(dispute, outcome, locked))
	return nil
}

// rewardWinners credits every ballot on the winning side with its own stake
// plus a floor-divided share of the losing stake, and, when collateral is
// non-nil, a floor-divided share of the initiation collateral in the base
// asset. Floor division keeps the credited sum at or below the assets the
// vault actually holds; the dust stays in custody.
func (e *Engine) rewardWinners(votes []*Vote, side VoteSide, losing, winning, collateral *big.Int) error {
	for _, vote := range votes {
		if vote == nil || vote.Side != side {
			continue
		}
		governanceShare := new(big.Int).Mul(losing, vote.Weight)
		governanceShare.Div(governanceShare, winning)
		governanceShare.Add(governanceShare, vote.Weight)
		baseShare := big.NewInt(0)
		if collateral != nil {
			baseShare = new(big.Int).Mul(collateral, vote.Weight)
			baseShare.Div(baseShare, winning)
		}
		if err := e.creditRewards(vote.Voter, baseShare, governanceShare); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) creditRewards(addr [20]byte, baseDelta, governanceDelta *big.Int) error {
	base, governance, err := e.state.RewardBalances(addr)
	if err != nil {
		return err
	}
	if baseDelta != nil && baseDelta.Sign() > 0 {
		base = new(big.Int).Add(base, baseDelta)
	}
	if governanceDelta != nil && governanceDelta.Sign() > 0 {
		governance = new(big.Int).Add(governance, governanceDelta)
	}
	return e.state.SetRewardBalances(addr, base, governance)
}
