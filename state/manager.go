package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"claimvault/native/vault"
	"claimvault/storage"
)

const (
	keyLocked    = "vault/locked"
	keyDispute   = "vault/dispute"
	keyVotes     = "vault/votes"
	keyFeeTotals = "vault/fees"

	prefixFeeSnapshot = "vault/fees/snapshot/"
	prefixRewards     = "vault/rewards/"
)

// Manager persists the vault's shared mutable record in a key-value store.
// It implements vault.State; a vault over a fresh database starts locked with
// no dispute and zeroed fee counters.
type Manager struct {
	db storage.Database
}

// NewManager wraps the supplied database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var _ vault.State = (*Manager)(nil)

type feeTotalsRecord struct {
	Accrued   *big.Int `json:"accrued"`
	Remaining *big.Int `json:"remaining"`
}

type rewardRecord struct {
	Base       *big.Int `json:"base"`
	Governance *big.Int `json:"governance"`
}

func (m *Manager) getJSON(key string, out interface{}) (bool, error) {
	raw, err := m.db.Get([]byte(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("state: decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Manager) putJSON(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", key, err)
	}
	return m.db.Put([]byte(key), raw)
}

// Locked reports the vault mode flag. Absent key means the vault has never
// been unlocked, i.e. locked.
func (m *Manager) Locked() (bool, error) {
	var locked bool
	ok, err := m.getJSON(keyLocked, &locked)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return locked, nil
}

// SetLocked persists the vault mode flag.
func (m *Manager) SetLocked(locked bool) error {
	return m.putJSON(keyLocked, locked)
}

// Dispute loads the current dispute record, if one was ever created.
func (m *Manager) Dispute() (*vault.Dispute, bool, error) {
	dispute := &vault.Dispute{}
	ok, err := m.getJSON(keyDispute, dispute)
	if err != nil || !ok {
		return nil, false, err
	}
	return normalizeDispute(dispute), true, nil
}

// PutDispute stores the dispute record, replacing any previous one.
func (m *Manager) PutDispute(d *vault.Dispute) error {
	if d == nil {
		return fmt.Errorf("state: nil dispute")
	}
	return m.putJSON(keyDispute, normalizeDispute(d.Clone()))
}

// Votes loads the ordered ballot list for the current dispute.
func (m *Manager) Votes() ([]*vault.Vote, error) {
	var votes []*vault.Vote
	if _, err := m.getJSON(keyVotes, &votes); err != nil {
		return nil, err
	}
	for _, v := range votes {
		if v != nil && v.Weight == nil {
			v.Weight = big.NewInt(0)
		}
	}
	return votes, nil
}

// AppendVote appends a ballot to the ordered list.
func (m *Manager) AppendVote(v *vault.Vote) error {
	if v == nil {
		return fmt.Errorf("state: nil vote")
	}
	votes, err := m.Votes()
	if err != nil {
		return err
	}
	votes = append(votes, v.Clone())
	return m.putJSON(keyVotes, votes)
}

// ClearVotes drops all recorded ballots.
func (m *Manager) ClearVotes() error {
	return m.putJSON(keyVotes, []*vault.Vote{})
}

// FeeTotals loads the cumulative and still-held fee counters.
func (m *Manager) FeeTotals() (accrued, remaining *big.Int, err error) {
	record := feeTotalsRecord{}
	if _, err := m.getJSON(keyFeeTotals, &record); err != nil {
		return nil, nil, err
	}
	return zeroIfNil(record.Accrued), zeroIfNil(record.Remaining), nil
}

// SetFeeTotals persists the fee counters.
func (m *Manager) SetFeeTotals(accrued, remaining *big.Int) error {
	return m.putJSON(keyFeeTotals, feeTotalsRecord{
		Accrued:   zeroIfNil(accrued),
		Remaining: zeroIfNil(remaining),
	})
}

// FeeSnapshot loads the accrued-fees-at-last-withdrawal snapshot for an
// account.
func (m *Manager) FeeSnapshot(addr [20]byte) (*big.Int, error) {
	value := new(big.Int)
	ok, err := m.getJSON(prefixFeeSnapshot+hex.EncodeToString(addr[:]), value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

// SetFeeSnapshot stores the per-account fee snapshot.
func (m *Manager) SetFeeSnapshot(addr [20]byte, value *big.Int) error {
	return m.putJSON(prefixFeeSnapshot+hex.EncodeToString(addr[:]), zeroIfNil(value))
}

// RewardBalances loads the pending base and governance asset rewards for an
// account.
func (m *Manager) RewardBalances(addr [20]byte) (base, governance *big.Int, err error) {
	record := rewardRecord{}
	if _, err := m.getJSON(prefixRewards+hex.EncodeToString(addr[:]), &record); err != nil {
		return nil, nil, err
	}
	return zeroIfNil(record.Base), zeroIfNil(record.Governance), nil
}

// SetRewardBalances stores the pending rewards for an account.
func (m *Manager) SetRewardBalances(addr [20]byte, base, governance *big.Int) error {
	return m.putJSON(prefixRewards+hex.EncodeToString(addr[:]), rewardRecord{
		Base:       zeroIfNil(base),
		Governance: zeroIfNil(governance),
	})
}

func normalizeDispute(d *vault.Dispute) *vault.Dispute {
	if d.InitiationAmount == nil {
		d.InitiationAmount = big.NewInt(0)
	}
	if d.AcceptWeight == nil {
		d.AcceptWeight = big.NewInt(0)
	}
	if d.DeclineWeight == nil {
		d.DeclineWeight = big.NewInt(0)
	}
	return d
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
