// Package inquire implements the "nodb inquire" command: a one-shot
// natural-language question against an environment's data.
package inquire

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nodb-io/nodb-go/internal/cmd/base"
	"github.com/nodb-io/nodb-go/internal/config"
	"github.com/nodb-io/nodb-go/pkg/nodb"
)

type Command struct {
	*base.Command

	flagApp string
	flagEnv string
}

func (c *Command) Synopsis() string {
	return "Ask a question of an environment's data"
}

func (c *Command) Help() string {
	return `Usage: nodb inquire [options] <question>

  Sends the question to the knowledge endpoint of the configured
  application environment and prints the answer.

  Configuration comes from NODB_BASE_URL, NODB_TOKEN, NODB_APP and
  NODB_ENV (a .env file in the working directory is honored).

Options:

  -app=<name>   Application (overrides NODB_APP).
  -env=<name>   Environment (overrides NODB_ENV).
`
}

func (c *Command) Run(args []string) int {
	flags := flag.NewFlagSet("inquire", flag.ContinueOnError)
	flags.StringVar(&c.flagApp, "app", "", "application")
	flags.StringVar(&c.flagEnv, "env", "", "environment")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	question := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if question == "" {
		c.UI.Error("a question is required")
		return 1
	}

	env, err := config.Load()
	if err != nil {
		c.UI.Error(fmt.Sprintf("invalid configuration: %v", err))
		return 1
	}
	if c.flagApp == "" {
		c.flagApp = env.AppName
	}
	if c.flagEnv == "" {
		c.flagEnv = env.EnvName
	}

	client, err := nodb.New(nodb.Config{
		BaseURL: env.BaseURL,
		Token:   env.Token,
		Logger:  c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	answer, err := client.Inquire(context.Background(), nodb.InquiryRequest{
		AppName: c.flagApp,
		EnvName: c.flagEnv,
		Inquiry: question,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("inquiry failed: %v", err))
		return 1
	}

	c.UI.Output(answer)
	return 0
}
