package vault

import (
	"math/big"
)

// FeeTotals returns the cumulative fees ever collected and the fees still
// held by the vault.
func (e *Engine) FeeTotals() (accrued, remaining *big.Int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, nil, errStateNotConfigured
	}
	return e.state.FeeTotals()
}

// OwedFees computes the caller's pro-rata share of the fees accrued since
// their last withdrawal, weighted by their current governance balance over the
// governance total supply.
func (e *Engine) OwedFees(caller [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	share, _, _, _, err := e.owedFees(caller)
	return share, err
}

// owedFees returns the computed share along with the fee delta and current
// fee counters. Callers must hold the engine mutex.
func (e *Engine) owedFees(caller [20]byte) (share, newFees, accrued, remaining *big.Int, err error) {
	accrued, remaining, err = e.state.FeeTotals()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	snapshot, err := e.state.FeeSnapshot(caller)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	newFees = new(big.Int).Sub(accrued, snapshot)
	if newFees.Sign() <= 0 {
		return big.NewInt(0), big.NewInt(0), accrued, remaining, nil
	}
	supply := e.governance.TotalSupply()
	if supply.Sign() == 0 {
		return big.NewInt(0), newFees, accrued, remaining, nil
	}
	share = new(big.Int).Mul(newFees, e.governance.BalanceOf(caller))
	share.Div(share, supply)
	// The running snapshot lets governance acquired after accrual claim a
	// full-period share, so the raw sum of shares across accounts can exceed
	// the fees ever collected. The payout is capped at what the fee pool
	// still holds; backing collateral never funds fee withdrawals.
	if share.Cmp(remaining) > 0 {
		share = new(big.Int).Set(remaining)
	}
	return share, newFees, accrued, remaining, nil
}

// WithdrawOwedFees pays out the caller's fee share in the base asset and
// advances their snapshot to the current accrued total. The snapshot advances
// regardless of governance balance changes between accrual events; a holder
// who acquired governance tokens just before withdrawing claims a full-period
// share. That mirrors the running-snapshot design rather than correcting it,
// but the share is capped at the fees still held so the remaining counter
// never goes negative. A fully drained pool fails with ErrNoFeesOwed.
func (e *Engine) WithdrawOwedFees(caller [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	share, newFees, accrued, remaining, err := e.owedFees(caller)
	if err != nil {
		return nil, err
	}
	if newFees.Sign() == 0 || share.Sign() == 0 {
		return nil, ErrNoFeesOwed
	}
	if err := e.base.Transfer(e.address, caller, share); err != nil {
		return nil, err
	}
	remaining = new(big.Int).Sub(remaining, share)
	if err := e.state.SetFeeTotals(accrued, remaining); err != nil {
		return nil, err
	}
	if err := e.state.SetFeeSnapshot(caller, accrued); err != nil {
		return nil, err
	}
	return share, nil
}

// RewardBalances returns the caller's pending base and governance asset
// rewards credited by dispute resolutions.
func (e *Engine) RewardBalances(caller [20]byte) (base, governance *big.Int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, nil, errStateNotConfigured
	}
	return e.state.RewardBalances(caller)
}

// WithdrawGovernanceTokenReward pays out the caller's full pending governance
// asset reward and resets it to zero.
func (e *Engine) WithdrawGovernanceTokenReward(caller [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	base, governance, err := e.state.RewardBalances(caller)
	if err != nil {
		return nil, err
	}
	if governance.Sign() == 0 {
		return nil, ErrNoRewardOwed
	}
	if err := e.governance.Transfer(e.address, caller, governance); err != nil {
		return nil, err
	}
	if err := e.state.SetRewardBalances(caller, base, big.NewInt(0)); err != nil {
		return nil, err
	}
	return governance, nil
}

// WithdrawBaseTokenReward pays out the caller's full pending base asset
// reward and resets it to zero.
func (e *Engine) WithdrawBaseTokenReward(caller [20]byte) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return nil, err
	}
	base, governance, err := e.state.RewardBalances(caller)
	if err != nil {
		return nil, err
	}
	if base.Sign() == 0 {
		return nil, ErrNoRewardOwed
	}
	if err := e.base.Transfer(e.address, caller, base); err != nil {
		return nil, err
	}
	if err := e.state.SetRewardBalances(caller, big.NewInt(0), governance); err != nil {
		return nil, err
	}
	return base, nil
}
