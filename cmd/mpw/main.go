package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
)

type cli struct {
	Config string `help:"The path to the config file." default:"~/.mpw.toml"`

	Generate generateCmd `cmd:"" help:"Generate a site password."`
	Username usernameCmd `cmd:"" help:"Derive the username for a site."`
	Recovery recoveryCmd `cmd:"" help:"Derive a recovery phrase for a site."`
	Token    tokenCmd    `cmd:"" help:"Print a session's login token."`
	Site     siteCmd     `cmd:"" help:"Save a site's preferences."`
	Users    usersCmd    `cmd:"" help:"Manage saved users."`
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

func askPassphrase(prompt string) ([]byte, error) {
	defer func() { _, _ = fmt.Fprintln(os.Stderr) }()

	_, _ = fmt.Fprint(os.Stderr, prompt)

	return term.ReadPassword(int(os.Stdin.Fd()))
}

// errNoUser is returned when no full name is given and none can be inferred
// from the config or the vault.
var errNoUser = errors.New("no user selected; pass --user or set FullName in the config")
