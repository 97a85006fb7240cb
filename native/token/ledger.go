package token

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

var (
	// ErrInsufficientBalance is returned when a transfer or burn exceeds the
	// source account balance.
	ErrInsufficientBalance = errors.New("token: insufficient balance")
	// ErrInsufficientAllowance is returned when TransferFrom exceeds the
	// spender's approved allowance.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	// ErrInvalidAmount is returned when an operation receives a nil or
	// negative amount.
	ErrInvalidAmount = errors.New("token: amount must be non-negative")
	// ErrUnauthorized is returned when mint or burn is invoked by anyone but
	// the owner that deployed the claim token.
	ErrUnauthorized = errors.New("token: unauthorized mint/burn caller")
)

// Ledger is a fungible balance ledger with approve/transferFrom allowance
// semantics. It backs the base and governance assets the vault collaborates
// with. All amounts are copied on the way in and out so callers can never
// alias internal big.Int values.
type Ledger struct {
	mu          sync.RWMutex
	symbol      string
	totalSupply *big.Int
	balances    map[[20]byte]*big.Int
	allowances  map[[20]byte]map[[20]byte]*big.Int
}

// NewLedger constructs a ledger seeded with the supplied genesis balances.
func NewLedger(symbol string, genesis map[[20]byte]*big.Int) *Ledger {
	l := &Ledger{
		symbol:      strings.ToUpper(strings.TrimSpace(symbol)),
		totalSupply: big.NewInt(0),
		balances:    make(map[[20]byte]*big.Int),
		allowances:  make(map[[20]byte]map[[20]byte]*big.Int),
	}
	for addr, amount := range genesis {
		if amount == nil || amount.Sign() <= 0 {
			continue
		}
		l.balances[addr] = new(big.Int).Set(amount)
		l.totalSupply.Add(l.totalSupply, amount)
	}
	return l
}

// Symbol returns the canonical uppercase token symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// BalanceOf returns the balance held by the supplied account.
func (l *Ledger) BalanceOf(addr [20]byte) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyBalance(l.balances[addr])
}

// TotalSupply returns the total amount of tokens in circulation.
func (l *Ledger) TotalSupply() *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.totalSupply)
}

// Transfer moves amount from one account to another.
func (l *Ledger) Transfer(from, to [20]byte, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move(from, to, amount)
}

// Approve records the allowance the owner grants to the spender. A fresh
// approval overwrites any prior allowance.
func (l *Ledger) Approve(owner, spender [20]byte, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	granted, ok := l.allowances[owner]
	if !ok {
		granted = make(map[[20]byte]*big.Int)
		l.allowances[owner] = granted
	}
	granted[spender] = new(big.Int).Set(amount)
	return nil
}

// Allowance returns the remaining amount the spender may move on behalf of the
// owner.
func (l *Ledger) Allowance(owner, spender [20]byte) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyBalance(l.allowances[owner][spender])
}

// TransferFrom moves amount from the owner to the recipient, consuming the
// spender's allowance. The allowance and balance checks both pass or the
// ledger is left untouched.
func (l *Ledger) TransferFrom(spender, from, to [20]byte, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	allowance := l.allowances[from][spender]
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s spender allowance", ErrInsufficientAllowance, l.symbol)
	}
	if err := l.move(from, to, amount); err != nil {
		return err
	}
	l.allowances[from][spender] = new(big.Int).Sub(allowance, amount)
	return nil
}

// move performs the balance update. Callers must hold the write lock and have
// validated the amount.
func (l *Ledger) move(from, to [20]byte, amount *big.Int) error {
	balance := l.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s transfer", ErrInsufficientBalance, l.symbol)
	}
	l.balances[from] = new(big.Int).Sub(balance, amount)
	l.credit(to, amount)
	return nil
}

func (l *Ledger) credit(to [20]byte, amount *big.Int) {
	current := l.balances[to]
	if current == nil {
		current = big.NewInt(0)
	}
	l.balances[to] = new(big.Int).Add(current, amount)
}

// mint creates amount new tokens for the recipient. Exposed to the package so
// the claim token variant can gate it behind an owner check; plain ledgers
// only mint through their genesis allocation.
func (l *Ledger) mint(to [20]byte, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(to, amount)
	l.totalSupply.Add(l.totalSupply, amount)
	return nil
}

// burn destroys amount tokens held by the target account.
func (l *Ledger) burn(from [20]byte, amount *big.Int) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	balance := l.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s burn", ErrInsufficientBalance, l.symbol)
	}
	l.balances[from] = new(big.Int).Sub(balance, amount)
	l.totalSupply.Sub(l.totalSupply, amount)
	return nil
}

func validateAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func copyBalance(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
