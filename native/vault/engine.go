package vault

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"claimvault/core/events"
	"claimvault/core/types"
	"claimvault/native/token"
)

// Asset is the transferable-balance capability the vault requires from the
// base and governance asset collaborators.
type Asset interface {
	BalanceOf(addr [20]byte) *big.Int
	TotalSupply() *big.Int
	Transfer(from, to [20]byte, amount *big.Int) error
	TransferFrom(spender, from, to [20]byte, amount *big.Int) error
}

// ClaimToken extends Asset with the owner-restricted supply controls the
// vault exercises over the claim token pair it deploys.
type ClaimToken interface {
	Asset
	Mint(caller, to [20]byte, amount *big.Int) error
	Burn(caller, from [20]byte, amount *big.Int) error
}

// State is the persistence backend for the vault's shared mutable record.
// Implementations must report the lock flag as true before any resolution has
// cleared it; a freshly constructed vault starts locked with no dispute.
type State interface {
	Locked() (bool, error)
	SetLocked(locked bool) error
	Dispute() (*Dispute, bool, error)
	PutDispute(d *Dispute) error
	Votes() ([]*Vote, error)
	AppendVote(v *Vote) error
	ClearVotes() error
	FeeTotals() (accrued, remaining *big.Int, err error)
	SetFeeTotals(accrued, remaining *big.Int) error
	FeeSnapshot(addr [20]byte) (*big.Int, error)
	SetFeeSnapshot(addr [20]byte, value *big.Int) error
	RewardBalances(addr [20]byte) (base, governance *big.Int, err error)
	SetRewardBalances(addr [20]byte, base, governance *big.Int) error
}

type vaultEvent struct {
	evt *types.Event
}

func (v vaultEvent) EventType() string {
	if v.evt == nil {
		return ""
	}
	return v.evt.Type
}

// Event returns the underlying typed payload.
func (v vaultEvent) Event() *types.Event { return v.evt }

// Engine owns the vault's dispute state machine, the claim token conversion
// accounting, and the fee/reward ledger. Every public operation runs under a
// single mutex so two operations never interleave their reads and writes of
// the shared record; the mutex doubles as the re-entrancy guard around
// collaborator calls.
type Engine struct {
	mu         sync.Mutex
	state      State
	emitter    events.Emitter
	nowFn      func() int64
	address    [20]byte
	base       Asset
	governance Asset
	cToken     ClaimToken
	iToken     ClaimToken
	condition  string
	params     Params
}

// NewEngine creates a vault engine with a no-op emitter and default dispute
// policy. Callers wire state, collaborators and claim tokens via the setters.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
		params:  DefaultParams(),
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for dispute windows. Primarily
// intended for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetAddress configures the vault custody account that holds pulled deposits,
// locked stake and accrued fees.
func (e *Engine) SetAddress(addr [20]byte) { e.address = addr }

// Address returns the vault custody account.
func (e *Engine) Address() [20]byte { return e.address }

// SetAssets wires the base and governance asset collaborators.
func (e *Engine) SetAssets(base, governance Asset) {
	e.base = base
	e.governance = governance
}

// SetClaimTokens wires the claim token pair whose supply the vault controls.
func (e *Engine) SetClaimTokens(cToken, iToken ClaimToken) {
	e.cToken = cToken
	e.iToken = iToken
}

// SetCondition records the opaque oracle condition description the vault's
// disputes adjudicate. The engine never parses it.
func (e *Engine) SetCondition(condition string) { e.condition = condition }

// Condition returns the oracle condition description.
func (e *Engine) Condition() string { return e.condition }

// SetParams updates the dispute policy. Zero or out-of-range fields fall back
// to defaults.
func (e *Engine) SetParams(params Params) {
	if params.DisputeDurationSeconds == 0 || params.DisputeDurationSeconds > MaxDisputeDurationSeconds {
		params.DisputeDurationSeconds = DefaultDisputeDurationSeconds
	}
	if params.InitiationDenominator == 0 {
		params.InitiationDenominator = DefaultInitiationDenominator
	}
	e.params = params
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errStateNotConfigured
	}
	if e.base == nil || e.governance == nil {
		return errAssetsNotConfigured
	}
	if e.cToken == nil || e.iToken == nil {
		return errTokensNotConfigured
	}
	return nil
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(vaultEvent{evt: event})
}

// pullErr maps a failed collaborator pull into vault custody onto the public
// taxonomy.
func pullErr(err error) error {
	if errors.Is(err, token.ErrInsufficientBalance) || errors.Is(err, token.ErrInsufficientAllowance) {
		return fmt.Errorf("%w: %v", ErrInsufficientAllowanceOrBalance, err)
	}
	return err
}

// Convert pulls amount of the base asset from the caller into vault custody,
// retains the flat 1% issuance fee (floor division, so sub-100 deposits pay
// nothing) and mints the remainder of both claim tokens to the caller.
func (e *Engine) Convert(caller [20]byte, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("vault: convert amount must be positive")
	}
	if err := e.base.TransferFrom(e.address, caller, e.address, amount); err != nil {
		return pullErr(err)
	}
	fee := new(big.Int).Div(amount, big.NewInt(feeDenominator))
	minted := new(big.Int).Sub(amount, fee)
	if err := e.cToken.Mint(e.address, caller, minted); err != nil {
		return err
	}
	if err := e.iToken.Mint(e.address, caller, minted); err != nil {
		return err
	}
	accrued, remaining, err := e.state.FeeTotals()
	if err != nil {
		return err
	}
	accrued = new(big.Int).Add(accrued, fee)
	remaining = new(big.Int).Add(remaining, fee)
	if err := e.state.SetFeeTotals(accrued, remaining); err != nil {
		return err
	}
	e.emit(newConvertEvent(caller, amount, fee, minted))
	return nil
}

// Redeem burns claim tokens against the vault and pays out the base asset
// 1:1. While the vault is locked the caller surrenders equal amounts of both
// claim tokens; once a dispute resolution has unlocked the vault only the
// iToken is burned and the cToken side becomes non-redeemable through this
// path.
func (e *Engine) Redeem(caller [20]byte, amount *big.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("vault: redeem amount must be positive")
	}
	locked, err := e.state.Locked()
	if err != nil {
		return err
	}
	// Validate every burn and the payout before mutating anything so a
	// mid-operation failure cannot leave a partial redemption behind.
	if locked && e.cToken.BalanceOf(caller).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if e.iToken.BalanceOf(caller).Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if e.base.BalanceOf(e.address).Cmp(amount) < 0 {
		return fmt.Errorf("vault: custody balance below redemption amount")
	}
	if locked {
		if err := e.cToken.Burn(e.address, caller, amount); err != nil {
			return err
		}
	}
	if err := e.iToken.Burn(e.address, caller, amount); err != nil {
		return err
	}
	if err := e.base.Transfer(e.address, caller, amount); err != nil {
		return err
	}
	e.emit(newRedeemEvent(caller, amount, locked))
	return nil
}

// Locked reports the current vault mode flag. True is the normal fully-hedged
// mode; false means an accepted dispute confirmed the tracked condition.
func (e *Engine) Locked() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return false, errStateNotConfigured
	}
	return e.state.Locked()
}

// DisputeSnapshot returns a copy of the current dispute record, if any.
func (e *Engine) DisputeSnapshot() (*Dispute, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, false, errStateNotConfigured
	}
	d, ok, err := e.state.Dispute()
	if err != nil || !ok {
		return nil, false, err
	}
	return d.Clone(), true, nil
}
