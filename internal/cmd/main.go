package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/nodb-io/nodb-go/internal/cmd/base"
	"github.com/nodb-io/nodb-go/internal/cmd/commands/inquire"
	versioncmd "github.com/nodb-io/nodb-go/internal/cmd/commands/version"
	"github.com/nodb-io/nodb-go/internal/cmd/commands/watch"
	"github.com/nodb-io/nodb-go/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:  cliName,
		Level: hclog.Warn,
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	baseCmd := base.NewCommand(log, ui)

	c := &cli.CLI{
		Name:    cliName,
		Args:    args[1:],
		Version: version.Version,
		Commands: map[string]cli.CommandFactory{
			"watch": func() (cli.Command, error) {
				return &watch.Command{Command: baseCmd}, nil
			},
			"inquire": func() (cli.Command, error) {
				return &inquire.Command{Command: baseCmd}, nil
			},
			"version": func() (cli.Command, error) {
				return &versioncmd.Command{Command: baseCmd}, nil
			},
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	return exitCode
}
