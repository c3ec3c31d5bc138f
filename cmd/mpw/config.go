package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

// A config holds the optional settings read from ~/.mpw.toml. Flags override
// these.
type config struct {
	// FullName is the default identity to log in as.
	FullName string

	// Extensions enables the extra template sets (pin6, vast, bigphrase).
	Extensions bool

	// MemoryBudget caps the scrypt V storage in bytes; 0 derives with a
	// fully populated V array.
	MemoryBudget int

	// Vault is the path of the persisted user/site store.
	Vault string
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Vault: "~/.mpw.vault"}

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Vault, err = homedir.Expand(cfg.Vault); err != nil {
		return nil, err
	}

	return cfg, nil
}
