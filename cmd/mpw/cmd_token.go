package main

import (
	"fmt"

	"github.com/codahale/mpw/vault"
)

type tokenCmd struct {
	User string `help:"The full name to log in as."`
}

func (cmd *tokenCmd) Run(c *cli) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	store, err := vault.Load(cfg.Vault)
	if err != nil {
		return err
	}

	user, err := resolveUser(cmd.User, cfg, store)
	if err != nil {
		return err
	}

	s, err := login(cfg, user)
	if err != nil {
		return err
	}

	defer s.Logout()

	token, err := s.LoginToken()
	if err != nil {
		return err
	}

	fmt.Printf("%08x\n", token)

	return nil
}
