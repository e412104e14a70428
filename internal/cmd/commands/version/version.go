// Package version implements the "nodb version" command.
package version

import (
	"github.com/nodb-io/nodb-go/internal/cmd/base"
	buildversion "github.com/nodb-io/nodb-go/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the CLI version"
}

func (c *Command) Help() string {
	return "Usage: nodb version"
}

func (c *Command) Run([]string) int {
	c.UI.Output(buildversion.Version)
	return 0
}
