package token

import (
	"errors"
	"math/big"
	"testing"
)

func testAddr(last byte) [20]byte {
	var a [20]byte
	a[19] = last
	return a
}

func TestNewLedgerSeedsGenesisBalances(t *testing.T) {
	alice := testAddr(1)
	bob := testAddr(2)
	ledger := NewLedger("base", map[[20]byte]*big.Int{
		alice:       big.NewInt(1000),
		bob:         big.NewInt(500),
		testAddr(3): big.NewInt(0),
		testAddr(4): nil,
	})
	if ledger.Symbol() != "BASE" {
		t.Fatalf("unexpected symbol %q", ledger.Symbol())
	}
	if got := ledger.TotalSupply(); got.Cmp(big.NewInt(1500)) != 0 {
		t.Fatalf("unexpected total supply %s", got)
	}
	if got := ledger.BalanceOf(alice); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("unexpected balance %s", got)
	}
	if got := ledger.BalanceOf(testAddr(3)); got.Sign() != 0 {
		t.Fatalf("expected empty balance, got %s", got)
	}
}

func TestTransferMovesBalance(t *testing.T) {
	alice := testAddr(1)
	bob := testAddr(2)
	ledger := NewLedger("BASE", map[[20]byte]*big.Int{alice: big.NewInt(1000)})

	if err := ledger.Transfer(alice, bob, big.NewInt(400)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := ledger.BalanceOf(alice); got.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("unexpected sender balance %s", got)
	}
	if got := ledger.BalanceOf(bob); got.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("unexpected recipient balance %s", got)
	}

	if err := ledger.Transfer(alice, bob, big.NewInt(601)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if err := ledger.Transfer(alice, bob, big.NewInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if err := ledger.Transfer(alice, bob, big.NewInt(0)); err != nil {
		t.Fatalf("zero transfer should be a no-op: %v", err)
	}
}

func TestTransferFromConsumesAllowance(t *testing.T) {
	alice := testAddr(1)
	bob := testAddr(2)
	spender := testAddr(9)
	ledger := NewLedger("BASE", map[[20]byte]*big.Int{alice: big.NewInt(1000)})

	if err := ledger.TransferFrom(spender, alice, bob, big.NewInt(100)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected allowance failure, got %v", err)
	}

	if err := ledger.Approve(alice, spender, big.NewInt(300)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := ledger.TransferFrom(spender, alice, bob, big.NewInt(200)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	if got := ledger.Allowance(alice, spender); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unexpected remaining allowance %s", got)
	}
	if got := ledger.BalanceOf(bob); got.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("unexpected recipient balance %s", got)
	}
	if err := ledger.TransferFrom(spender, alice, bob, big.NewInt(101)); !errors.Is(err, ErrInsufficientAllowance) {
		t.Fatalf("expected allowance exhaustion, got %v", err)
	}
}

func TestTransferFromLeavesAllowanceOnBalanceFailure(t *testing.T) {
	alice := testAddr(1)
	bob := testAddr(2)
	spender := testAddr(9)
	ledger := NewLedger("BASE", map[[20]byte]*big.Int{alice: big.NewInt(50)})

	if err := ledger.Approve(alice, spender, big.NewInt(100)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := ledger.TransferFrom(spender, alice, bob, big.NewInt(80)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected balance failure, got %v", err)
	}
	if got := ledger.Allowance(alice, spender); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("allowance should be untouched, got %s", got)
	}
}

func TestApproveOverwritesPriorAllowance(t *testing.T) {
	alice := testAddr(1)
	spender := testAddr(9)
	ledger := NewLedger("BASE", nil)

	if err := ledger.Approve(alice, spender, big.NewInt(500)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := ledger.Approve(alice, spender, big.NewInt(20)); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if got := ledger.Allowance(alice, spender); got.Cmp(big.NewInt(20)) != 0 {
		t.Fatalf("expected latest approval to win, got %s", got)
	}
}

func TestBalancesAreCopiedOnReturn(t *testing.T) {
	alice := testAddr(1)
	ledger := NewLedger("BASE", map[[20]byte]*big.Int{alice: big.NewInt(1000)})

	balance := ledger.BalanceOf(alice)
	balance.SetInt64(1)
	if got := ledger.BalanceOf(alice); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("ledger balance aliased by caller, got %s", got)
	}

	supply := ledger.TotalSupply()
	supply.SetInt64(1)
	if got := ledger.TotalSupply(); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("total supply aliased by caller, got %s", got)
	}
}
