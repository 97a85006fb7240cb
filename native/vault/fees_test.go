package vault

import (
	"errors"
	"math/big"
	"testing"
)

func TestOwedFeesProRataOnGovernanceBalance(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000) // accrues 100

	// Governance supply is 4,000,000 split evenly; each holder owns a quarter.
	owed, err := f.engine.OwedFees(bob)
	if err != nil {
		t.Fatalf("owed fees: %v", err)
	}
	wantBalance(t, "owed share", owed, 25)
}

func TestWithdrawOwedFeesPaysAndAdvancesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000)

	bobBefore := f.base.BalanceOf(bob)
	share, err := f.engine.WithdrawOwedFees(bob)
	if err != nil {
		t.Fatalf("withdraw owed fees: %v", err)
	}
	wantBalance(t, "paid share", share, 25)

	paid := new(big.Int).Add(bobBefore, share)
	if f.base.BalanceOf(bob).Cmp(paid) != 0 {
		t.Fatalf("payout not received: got %s want %s", f.base.BalanceOf(bob), paid)
	}
	wantBalance(t, "remaining fees", f.state.remaining, 75)
	wantBalance(t, "accrued fees unchanged", f.state.accrued, 100)
	wantBalance(t, "snapshot advanced", f.state.snapshots[bob], 100)
}

func TestWithdrawOwedFeesFailsWithoutNewFees(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000)

	if _, err := f.engine.WithdrawOwedFees(bob); err != nil {
		t.Fatalf("first withdrawal: %v", err)
	}
	_, err := f.engine.WithdrawOwedFees(bob)
	if !errors.Is(err, ErrNoFeesOwed) {
		t.Fatalf("expected no fees owed, got %v", err)
	}
}

func TestWithdrawOwedFeesFailsOnZeroShare(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000)

	// An account with no governance balance computes a zero share.
	stranger := addr(9)
	_, err := f.engine.WithdrawOwedFees(stranger)
	if !errors.Is(err, ErrNoFeesOwed) {
		t.Fatalf("expected no fees owed, got %v", err)
	}
}

// TestFeeSnapshotIgnoresBalanceHistory pins the running-snapshot behaviour:
// governance acquired after the fees accrued still claims a full-period
// share, because the snapshot only records the accrued total.
func TestFeeSnapshotIgnoresBalanceHistory(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000)

	stranger := addr(9)
	if err := f.governance.Transfer(bob, stranger, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("transfer governance: %v", err)
	}
	share, err := f.engine.WithdrawOwedFees(stranger)
	if err != nil {
		t.Fatalf("withdraw owed fees: %v", err)
	}
	wantBalance(t, "late-holder share", share, 25)
}

// TestWithdrawOwedFeesNeverOverdrawsPool moves governance between accounts to
// manufacture overlapping full-period claims and checks the remaining fee
// counter never goes below zero: late claims are capped at what the pool still
// holds, and a drained pool rejects further withdrawals.
func TestWithdrawOwedFeesNeverOverdrawsPool(t *testing.T) {
	f := newFixture(t)
	f.convert(t, alice, 10_000) // accrues 100

	wantRemaining := func(label string, want int64) {
		t.Helper()
		if f.state.remaining.Sign() < 0 {
			t.Fatalf("%s: remaining fees went negative: %s", label, f.state.remaining)
		}
		wantBalance(t, label, f.state.remaining, want)
	}

	for _, holder := range [][20]byte{alice, bob, carol} {
		if _, err := f.engine.WithdrawOwedFees(holder); err != nil {
			t.Fatalf("withdraw: %v", err)
		}
	}
	wantRemaining("after quarter-share withdrawals", 25)

	// Stack two already-withdrawn quarters onto a fresh account; its raw
	// full-period claim of 50 exceeds the 25 the pool still holds.
	stranger := addr(9)
	if err := f.governance.Transfer(bob, stranger, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("transfer governance: %v", err)
	}
	if err := f.governance.Transfer(carol, stranger, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("transfer governance: %v", err)
	}
	share, err := f.engine.WithdrawOwedFees(stranger)
	if err != nil {
		t.Fatalf("withdraw capped share: %v", err)
	}
	wantBalance(t, "capped share", share, 25)
	wantRemaining("after capped withdrawal", 0)

	_, err = f.engine.WithdrawOwedFees(dave)
	if !errors.Is(err, ErrNoFeesOwed) {
		t.Fatalf("expected drained pool rejection, got %v", err)
	}
	wantRemaining("after drained-pool attempt", 0)
}

func TestWithdrawGovernanceRewardDrainsBalance(t *testing.T) {
	f := newFixture(t)
	if err := f.state.SetRewardBalances(carol, big.NewInt(0), big.NewInt(375)); err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	// Back the claim with custody funds.
	if err := f.governance.Transfer(alice, vaultAddr, big.NewInt(500)); err != nil {
		t.Fatalf("fund custody: %v", err)
	}

	paid, err := f.engine.WithdrawGovernanceTokenReward(carol)
	if err != nil {
		t.Fatalf("withdraw governance reward: %v", err)
	}
	wantBalance(t, "paid reward", paid, 375)

	_, governance, _ := f.engine.RewardBalances(carol)
	wantBalance(t, "drained balance", governance, 0)

	_, err = f.engine.WithdrawGovernanceTokenReward(carol)
	if !errors.Is(err, ErrNoRewardOwed) {
		t.Fatalf("expected no reward owed, got %v", err)
	}
}

func TestWithdrawBaseRewardDrainsBalance(t *testing.T) {
	f := newFixture(t)
	if err := f.state.SetRewardBalances(dave, big.NewInt(750), big.NewInt(0)); err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	if err := f.base.Transfer(alice, vaultAddr, big.NewInt(1000)); err != nil {
		t.Fatalf("fund custody: %v", err)
	}

	paid, err := f.engine.WithdrawBaseTokenReward(dave)
	if err != nil {
		t.Fatalf("withdraw base reward: %v", err)
	}
	wantBalance(t, "paid reward", paid, 750)

	base, _, _ := f.engine.RewardBalances(dave)
	wantBalance(t, "drained balance", base, 0)

	_, err = f.engine.WithdrawBaseTokenReward(dave)
	if !errors.Is(err, ErrNoRewardOwed) {
		t.Fatalf("expected no reward owed, got %v", err)
	}
}

func TestRewardCurrenciesAreIndependent(t *testing.T) {
	f := newFixture(t)
	if err := f.state.SetRewardBalances(carol, big.NewInt(250), big.NewInt(125)); err != nil {
		t.Fatalf("seed reward: %v", err)
	}
	if err := f.base.Transfer(alice, vaultAddr, big.NewInt(1000)); err != nil {
		t.Fatalf("fund custody: %v", err)
	}
	if err := f.governance.Transfer(alice, vaultAddr, big.NewInt(1000)); err != nil {
		t.Fatalf("fund custody: %v", err)
	}

	if _, err := f.engine.WithdrawBaseTokenReward(carol); err != nil {
		t.Fatalf("withdraw base reward: %v", err)
	}
	base, governance, _ := f.engine.RewardBalances(carol)
	wantBalance(t, "base drained", base, 0)
	wantBalance(t, "governance untouched", governance, 125)
}
