// Package watch implements the "nodb watch" command: it subscribes to the
// change-event channel for the configured application (and optionally
// environment) and prints every event.
package watch

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cenkalti/backoff/v4"

	"github.com/nodb-io/nodb-go/internal/cmd/base"
	"github.com/nodb-io/nodb-go/internal/config"
	"github.com/nodb-io/nodb-go/pkg/listener"
	"github.com/nodb-io/nodb-go/pkg/models"
)

type Command struct {
	*base.Command

	flagApp       string
	flagEnv       string
	flagReconnect bool
}

func (c *Command) Synopsis() string {
	return "Stream change events for an application"
}

func (c *Command) Help() string {
	return `Usage: nodb watch [options]

  Connects to the change-event socket and prints every change made to the
  application's data until interrupted.

  Configuration comes from NODB_BASE_URL, NODB_TOKEN, NODB_APP and
  NODB_ENV (a .env file in the working directory is honored).

Options:

  -app=<name>   Application to watch (overrides NODB_APP).
  -env=<name>   Restrict to one environment (overrides NODB_ENV).
  -reconnect    Redial with exponential backoff when the connection drops.
                The channel itself never retries; this loop reconnects
                explicitly on its behalf.
`
}

func (c *Command) Run(args []string) int {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	flags.StringVar(&c.flagApp, "app", "", "application to watch")
	flags.StringVar(&c.flagEnv, "env", "", "environment to watch")
	flags.BoolVar(&c.flagReconnect, "reconnect", false, "redial on connection loss")
	if err := flags.Parse(args); err != nil {
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
	if c.flagApp == "" {
		c.UI.Error("an application is required: pass -app or set NODB_APP")
		return 1
	}

	l, err := listener.New(listener.Config{
		BaseURL: env.BaseURL,
		Token:   env.Token,
		Logger:  c.Log,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating listener: %v", err))
		return 1
	}
	defer l.Disconnect()

	l.Events().On(listener.EventChange, func(data any) {
		evt, ok := data.(models.ChangeEvent)
		if !ok {
			return
		}
		payload, _ := json.Marshal(evt.Data)
		c.UI.Output(fmt.Sprintf("%s %s/%s %s",
			evt.Operation(), evt.AppName, evt.EnvName, string(payload)))
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := listener.ConnectRequest{AppName: c.flagApp, EnvName: c.flagEnv}
	if err := l.Connect(ctx, req); err != nil {
		c.UI.Error(fmt.Sprintf("error connecting: %v", err))
		return 1
	}
	c.UI.Info(fmt.Sprintf("watching %s", c.flagApp))

	for {
		select {
		case <-ctx.Done():
			return 0
		case <-l.Done():
			if !c.flagReconnect {
				c.UI.Error("connection lost")
				return 1
			}
			if err := c.redial(ctx, l, req); err != nil {
				c.UI.Error(fmt.Sprintf("could not reconnect: %v", err))
				return 1
			}
			c.UI.Info("reconnected")
		}
	}
}

// redial reconnects with exponential backoff until it succeeds or the
// context is cancelled.
func (c *Command) redial(ctx context.Context, l *listener.Listener, req listener.ConnectRequest) error {
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.Retry(func() error {
		err := l.Connect(ctx, req)
		if err != nil {
			c.Log.Debug("reconnect attempt failed", "error", err)
		}
		return err
	}, policy)
}
