package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/craftlink"
	"github.com/vovakirdan/craftlink/internal/config"
	"github.com/vovakirdan/craftlink/internal/log"
)

const dialTimeout = 15 * time.Second

// app carries resolved configuration and the logger across subcommands.
type app struct {
	cfgPath   string
	overrides config.Config
	cfg       config.Config
	log       zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "craftlinkctl",
		Short:         "Control managed game servers through a craftlink supervisor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bootstrapLog := log.New("info")
			cfg, _, err := config.Load(&bootstrapLog, a.cfgPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(a.overrides)
			a.cfg = cfg
			a.log = log.New(cfg.LogLevel)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "path to config file")
	flags.StringVar(&a.overrides.Endpoint, "endpoint", "", "supervisor websocket address")
	flags.StringVar(&a.overrides.Name, "name", "", "client display name")
	flags.StringVar(&a.overrides.Secret, "secret", "", "client secret")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(
		newStartCmd(a),
		newStopCmd(a),
		newConsoleCmd(a),
		newPlayersCmd(a),
		newStatusCmd(a),
		newWhitelistCmd(a),
		newWatchCmd(a),
	)
	return root
}

// signalContext is the base context for every subcommand.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// dial connects and waits for the handshake outcome.
func (a *app) dial(ctx context.Context) (*craftlink.Client, error) {
	client := craftlink.New(craftlink.Config{
		Name:     a.cfg.Name,
		Endpoint: a.cfg.Endpoint,
		Secret:   a.cfg.Secret,
	}, craftlink.WithLogger(a.log))

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	done := make(chan error, 1)
	client.OnConnect(func(err error) {
		select {
		case done <- err:
		default:
		}
	})

	client.Connect(dialCtx)

	select {
	case err := <-done:
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	case <-dialCtx.Done():
		_ = client.Close()
		return nil, fmt.Errorf("connect to %s: %w", a.cfg.Endpoint, dialCtx.Err())
	}
}
