package token

import (
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Claim is a mint/burn-capable ledger variant used for the two claim tokens
// the vault deploys. Supply changes are restricted to the owner address fixed
// at construction time; every other capability matches the plain ledger.
type Claim struct {
	ledger  *Ledger
	owner   [20]byte
	address [20]byte
}

// NewClaim deploys a claim token with zero supply. The token address is
// derived deterministically from the owner address and symbol so redeploys by
// the same vault yield the same identity.
func NewClaim(symbol string, owner [20]byte) *Claim {
	ledger := NewLedger(symbol, nil)
	hash := ethcrypto.Keccak256(owner[:], []byte(ledger.Symbol()))
	var address [20]byte
	copy(address[:], hash[12:])
	return &Claim{ledger: ledger, owner: owner, address: address}
}

// Symbol returns the canonical uppercase token symbol.
func (c *Claim) Symbol() string { return c.ledger.Symbol() }

// Address returns the derived token address.
func (c *Claim) Address() [20]byte { return c.address }

// Owner returns the address permitted to mint and burn.
func (c *Claim) Owner() [20]byte { return c.owner }

// BalanceOf returns the balance held by the supplied account.
func (c *Claim) BalanceOf(addr [20]byte) *big.Int { return c.ledger.BalanceOf(addr) }

// TotalSupply returns the outstanding claim token supply.
func (c *Claim) TotalSupply() *big.Int { return c.ledger.TotalSupply() }

// Transfer moves amount between holders.
func (c *Claim) Transfer(from, to [20]byte, amount *big.Int) error {
	return c.ledger.Transfer(from, to, amount)
}

// Approve records an allowance grant.
func (c *Claim) Approve(owner, spender [20]byte, amount *big.Int) error {
	return c.ledger.Approve(owner, spender, amount)
}

// Allowance returns the remaining approved amount.
func (c *Claim) Allowance(owner, spender [20]byte) *big.Int {
	return c.ledger.Allowance(owner, spender)
}

// TransferFrom moves amount using a prior allowance.
func (c *Claim) TransferFrom(spender, from, to [20]byte, amount *big.Int) error {
	return c.ledger.TransferFrom(spender, from, to, amount)
}

// Mint creates new claim tokens for the recipient. Only the owner may call.
func (c *Claim) Mint(caller, to [20]byte, amount *big.Int) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	return c.ledger.mint(to, amount)
}

// Burn destroys claim tokens held by the target. Only the owner may call.
func (c *Claim) Burn(caller, from [20]byte, amount *big.Int) error {
	if caller != c.owner {
		return ErrUnauthorized
	}
	return c.ledger.burn(from, amount)
}
