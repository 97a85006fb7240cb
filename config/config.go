package config

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"claimvault/native/vault"
)

// Config carries the runtime settings for a vault deployment. Genesis maps
// are keyed by 20-byte hex account addresses with decimal amount values.
type Config struct {
	ListenAddress          string            `toml:"ListenAddress"`
	DataDir                string            `toml:"DataDir"`
	Environment            string            `toml:"Environment"`
	VaultAddress           string            `toml:"VaultAddress"`
	Condition              string            `toml:"Condition"`
	DisputeDurationSeconds uint64            `toml:"DisputeDurationSeconds"`
	InitiationDenominator  uint64            `toml:"InitiationDenominator"`
	BaseGenesis            map[string]string `toml:"BaseGenesis"`
	GovernanceGenesis      map[string]string `toml:"GovernanceGenesis"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.ListenAddress) == "" {
		cfg.ListenAddress = ":8766"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./vault-data"
	}
	if strings.TrimSpace(cfg.Environment) == "" {
		cfg.Environment = "local"
	}
	if cfg.DisputeDurationSeconds == 0 {
		cfg.DisputeDurationSeconds = vault.DefaultDisputeDurationSeconds
	}
	if cfg.InitiationDenominator == 0 {
		cfg.InitiationDenominator = vault.DefaultInitiationDenominator
	}
	if strings.TrimSpace(cfg.VaultAddress) == "" {
		cfg.VaultAddress = hex.EncodeToString(make([]byte, 19)) + "01"
	}
	if cfg.BaseGenesis == nil {
		cfg.BaseGenesis = map[string]string{}
	}
	if cfg.GovernanceGenesis == nil {
		cfg.GovernanceGenesis = map[string]string{}
	}
}

// Validate checks the address and amount encodings without mutating the
// configuration.
func (c *Config) Validate() error {
	if _, err := ParseAddress(c.VaultAddress); err != nil {
		return fmt.Errorf("config: VaultAddress: %w", err)
	}
	if _, err := ParseGenesis(c.BaseGenesis); err != nil {
		return fmt.Errorf("config: BaseGenesis: %w", err)
	}
	if _, err := ParseGenesis(c.GovernanceGenesis); err != nil {
		return fmt.Errorf("config: GovernanceGenesis: %w", err)
	}
	if c.DisputeDurationSeconds > vault.MaxDisputeDurationSeconds {
		return fmt.Errorf("config: DisputeDurationSeconds %d exceeds maximum %d",
			c.DisputeDurationSeconds, vault.MaxDisputeDurationSeconds)
	}
	return nil
}

// Params maps the configured dispute policy onto vault parameters.
func (c *Config) Params() vault.Params {
	return vault.Params{
		DisputeDurationSeconds: c.DisputeDurationSeconds,
		InitiationDenominator:  c.InitiationDenominator,
	}
}

// ParseAddress decodes a 20-byte hex account address, with or without an 0x
// prefix.
func ParseAddress(raw string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("decode address %q: %w", raw, err)
	}
	if len(decoded) != 20 {
		return addr, fmt.Errorf("address %q must be 20 bytes", raw)
	}
	copy(addr[:], decoded)
	return addr, nil
}

// ParseGenesis converts a hex-address to decimal-amount map into ledger
// genesis balances.
func ParseGenesis(raw map[string]string) (map[[20]byte]*big.Int, error) {
	genesis := make(map[[20]byte]*big.Int, len(raw))
	for account, amount := range raw {
		addr, err := ParseAddress(account)
		if err != nil {
			return nil, err
		}
		value, ok := new(big.Int).SetString(strings.TrimSpace(amount), 10)
		if !ok || value.Sign() < 0 {
			return nil, fmt.Errorf("invalid genesis amount %q for %s", amount, account)
		}
		genesis[addr] = value
	}
	return genesis, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Condition: "tracked condition description",
	}
	applyDefaults(cfg)
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}
