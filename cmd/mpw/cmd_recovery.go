package main

import (
	"fmt"

	"github.com/codahale/mpw/vault"
)

type recoveryCmd struct {
	Site    string `arg:"" help:"The site name."`
	User    string `help:"The full name to log in as."`
	Context string `help:"The security question this answers, e.g. 'maiden'."`
}

func (cmd *recoveryCmd) Run(c *cli) error {
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

	var context []byte
	if cmd.Context != "" {
		context = []byte(cmd.Context)
	}

	out, err := s.Recovery([]byte(cmd.Site), context)
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}
