package main

import (
	"github.com/codahale/mpw"
	"github.com/codahale/mpw/vault"
)

type siteCmd struct {
	Site    string `arg:"" help:"The site name."`
	User    string `help:"The full name the site belongs to."`
	Counter uint8  `default:"1" help:"The site counter to save."`
	Type    string `default:"long" help:"The password type to save."`

	Username      bool `help:"Mark the site as having a derived username."`
	Recovery      bool `help:"Mark the site as having a recovery phrase."`
	RequiresLogin bool `help:"Mark the site as requiring a login."`
}

func (cmd *siteCmd) Run(c *cli) error {
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

	typ, err := mpw.ParseType(cmd.Type)
	if err != nil {
		return err
	}

	var options uint8
	if cmd.Username {
		options |= vault.HasUsername
	}

	if cmd.Recovery {
		options |= vault.HasRecovery
	}

	if cmd.RequiresLogin {
		options |= vault.RequiresLogin
	}

	record := vault.Site{
		Name:    cmd.Site,
		Counter: cmd.Counter,
		Type:    uint8(typ),
		Options: options,
	}

	u := store.AddUser(user)
	if existing := u.Site(cmd.Site); existing != nil {
		*existing = record
	} else {
		u.Sites = append(u.Sites, record)
	}

	return store.Save(cfg.Vault)
}
