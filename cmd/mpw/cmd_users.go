package main

import (
	"fmt"

	"github.com/codahale/mpw"
	"github.com/codahale/mpw/vault"
)

type usersCmd struct {
	List   usersListCmd   `cmd:"" default:"1" help:"List saved users and their sites."`
	Add    usersAddCmd    `cmd:"" help:"Add a user."`
	Remove usersRemoveCmd `cmd:"" help:"Remove a user and their sites."`
}

type usersListCmd struct{}

func (cmd *usersListCmd) Run(c *cli) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	store, err := vault.Load(cfg.Vault)
	if err != nil {
		return err
	}

	for _, u := range store.Users {
		fmt.Println(u.Name)

		for _, site := range u.Sites {
			fmt.Printf("  %s (counter %d, %s)\n", site.Name, site.Counter, mpw.Type(site.Type))
		}
	}

	return nil
}

type usersAddCmd struct {
	Name string `arg:"" help:"The user's full name."`
}

func (cmd *usersAddCmd) Run(c *cli) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	store, err := vault.Load(cfg.Vault)
	if err != nil {
		return err
	}

	store.AddUser(cmd.Name)

	return store.Save(cfg.Vault)
}

type usersRemoveCmd struct {
	Name string `arg:"" help:"The user's full name."`
}

func (cmd *usersRemoveCmd) Run(c *cli) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return err
	}

	store, err := vault.Load(cfg.Vault)
	if err != nil {
		return err
	}

	if !store.RemoveUser(cmd.Name) {
		return fmt.Errorf("no such user: %s", cmd.Name)
	}

	return store.Save(cfg.Vault)
}
