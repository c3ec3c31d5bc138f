package main

import (
	"fmt"

	"github.com/codahale/mpw/vault"
)

type usernameCmd struct {
	Site string `arg:"" help:"The site name."`
	User string `help:"The full name to log in as."`
}

func (cmd *usernameCmd) Run(c *cli) error {
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

	out, err := s.Username([]byte(cmd.Site))
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}
