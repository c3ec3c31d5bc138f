package main

import (
	"fmt"
	"os"

	"github.com/codahale/mpw"
	"github.com/codahale/mpw/scrypt"
	"github.com/codahale/mpw/vault"
)

// resolveUser picks the identity to log in as: the flag, then the config,
// then a vault with exactly one user.
func resolveUser(flag string, cfg *config, store *vault.Store) (string, error) {
	if flag != "" {
		return flag, nil
	}

	if cfg.FullName != "" {
		return cfg.FullName, nil
	}

	if len(store.Users) == 1 {
		return store.Users[0].Name, nil
	}

	return "", errNoUser
}

// login prompts for the master password and derives the user's master key,
// reporting progress on stderr.
func login(cfg *config, name string) (*mpw.Session, error) {
	password, err := askPassphrase(fmt.Sprintf("Master password for %s: ", name))
	if err != nil {
		return nil, err
	}

	s := mpw.NewSession()
	s.Extensions = cfg.Extensions

	if cfg.MemoryBudget > 0 {
		s.Storage = &scrypt.MixerConfig{HeapBytes: cfg.MemoryBudget}
	}

	return s.Login([]byte(name), password, func(percent int) {
		_, _ = fmt.Fprintf(os.Stderr, "\rderiving master key... %3d%%", percent)
		if percent == 100 {
			_, _ = fmt.Fprintln(os.Stderr)
		}
	})
}

// siteDefaults returns the counter and type for a generation, preferring
// explicit flags, then the vault record, then the algorithm defaults.
func siteDefaults(store *vault.Store, user, site string, counter uint32, typeName string) (uint32, string) {
	var record *vault.Site

	if u := store.User(user); u != nil {
		record = u.Site(site)
	}

	if counter == 0 {
		counter = 1

		if record != nil && record.Counter > 0 {
			counter = uint32(record.Counter)
		}
	}

	if typeName == "" {
		typeName = "long"

		if record != nil && record.Type > 0 {
			typeName = mpw.Type(record.Type).String()
		}
	}

	return counter, typeName
}
