package token

import (
	"errors"
	"math/big"
	"testing"
)

func TestClaimAddressIsDeterministic(t *testing.T) {
	owner := testAddr(0xAA)
	first := NewClaim("cvc", owner)
	second := NewClaim("CVC", owner)
	if first.Address() != second.Address() {
		t.Fatalf("redeploy changed address: %x vs %x", first.Address(), second.Address())
	}
	other := NewClaim("CVI", owner)
	if other.Address() == first.Address() {
		t.Fatalf("distinct symbols should derive distinct addresses")
	}
	if first.Address() == ([20]byte{}) {
		t.Fatalf("derived address must not be zero")
	}
	if first.Owner() != owner {
		t.Fatalf("unexpected owner %x", first.Owner())
	}
}

func TestClaimMintRestrictedToOwner(t *testing.T) {
	owner := testAddr(0xAA)
	holder := testAddr(1)
	claim := NewClaim("CVC", owner)

	if err := claim.Mint(holder, holder, big.NewInt(100)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized mint, got %v", err)
	}
	if err := claim.Mint(owner, holder, big.NewInt(100)); err != nil {
		t.Fatalf("owner mint: %v", err)
	}
	if got := claim.TotalSupply(); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unexpected supply %s", got)
	}
	if got := claim.BalanceOf(holder); got.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("unexpected balance %s", got)
	}
}

func TestClaimBurnRestrictedToOwner(t *testing.T) {
	owner := testAddr(0xAA)
	holder := testAddr(1)
	claim := NewClaim("CVC", owner)
	if err := claim.Mint(owner, holder, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := claim.Burn(holder, holder, big.NewInt(40)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized burn, got %v", err)
	}
	if err := claim.Burn(owner, holder, big.NewInt(40)); err != nil {
		t.Fatalf("owner burn: %v", err)
	}
	if got := claim.TotalSupply(); got.Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("unexpected supply %s", got)
	}
	if err := claim.Burn(owner, holder, big.NewInt(61)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestClaimTransfersMatchLedgerSemantics(t *testing.T) {
	owner := testAddr(0xAA)
	alice := testAddr(1)
	bob := testAddr(2)
	claim := NewClaim("CVI", owner)
	if err := claim.Mint(owner, alice, big.NewInt(500)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	if err := claim.Transfer(alice, bob, big.NewInt(200)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := claim.Approve(bob, owner, big.NewInt(150)); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := claim.TransferFrom(owner, bob, alice, big.NewInt(150)); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	if got := claim.Allowance(bob, owner); got.Sign() != 0 {
		t.Fatalf("allowance should be spent, got %s", got)
	}
	if got := claim.BalanceOf(alice); got.Cmp(big.NewInt(450)) != 0 {
		t.Fatalf("unexpected balance %s", got)
	}
}
