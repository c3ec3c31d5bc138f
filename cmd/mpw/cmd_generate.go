package main

import (
	"fmt"

	"github.com/codahale/mpw"
	"github.com/codahale/mpw/vault"
	"github.com/mr-tron/base58"
)

type generateCmd struct {
	Site    string `arg:"" help:"The site name."`
	User    string `help:"The full name to log in as."`
	Counter uint32 `help:"The site counter; bump it to rotate the password."`
	Type    string `help:"The password type (maximum, long, medium, basic, short, pin, name, phrase, raw)."`
	Context string `help:"An optional context string mixed into the derivation."`
}

func (cmd *generateCmd) Run(c *cli) error {
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

	counter, typeName := siteDefaults(store, user, cmd.Site, cmd.Counter, cmd.Type)

	typ, err := mpw.ParseType(typeName)
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

	out, err := s.Generate([]byte(cmd.Site), counter, typ, context, mpw.ScopeAuthentication)
	if err != nil {
		return err
	}

	if typ == mpw.Raw {
		fmt.Println(base58.Encode(out))
		return nil
	}

	fmt.Println(string(out))

	return nil
}
