package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/craftlink"
	"github.com/vovakirdan/craftlink/proto"
)

// withClient runs fn against a connected client and tears it down after.
func withClient(a *app, fn func(ctx context.Context, client *craftlink.Client) error) error {
	ctx, stop := signalContext()
	defer stop()

	client, err := a.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, client)
}

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start <server>",
		Short: "Start a managed server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				ok, err := client.Start(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("start %s: %v\n", args[0], ok)
				return nil
			})
		},
	}
}

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <server>",
		Short: "Stop a managed server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				ok, err := client.Stop(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("stop %s: %v\n", args[0], ok)
				return nil
			})
		},
	}
}

func newConsoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "console <server> <command...>",
		Short: "Send a console command line to a managed server",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				line := strings.Join(args[1:], " ")
				ok, err := client.Console(ctx, args[0], line)
				if err != nil {
					return err
				}
				fmt.Printf("console %s: %v\n", args[0], ok)
				return nil
			})
		},
	}
}

func newPlayersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "players <server>",
		Short: "List players currently online",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				players, err := client.OnlinePlayers(ctx, args[0])
				if err != nil {
					return err
				}
				for _, p := range players {
					fmt.Println(p)
				}
				return nil
			})
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <server>",
		Short: "Show a managed server's lifecycle stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				status, err := client.Status(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Println(status)
				return nil
			})
		},
	}
}

func newWhitelistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Manage a server's whitelist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <server>",
		Short: "List whitelist entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				entries, err := client.WhitelistList(ctx, args[0])
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Printf("%s\t%s\n", e.ID, e.Name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <server> <player>",
		Short: "Add a player to the whitelist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				ok, err := client.WhitelistAdd(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("whitelist add %s: %v\n", args[1], ok)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <server> <player>",
		Short: "Remove a player from the whitelist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				ok, err := client.WhitelistRemove(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Printf("whitelist remove %s: %v\n", args[1], ok)
				return nil
			})
		},
	})

	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream supervisor events until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(a, func(ctx context.Context, client *craftlink.Client) error {
				client.OnLine(func(ev proto.LineEvent) {
					fmt.Printf("[%s] %s\n", ev.Server, ev.Text)
				})
				client.OnStatus(func(ev proto.StatusEvent) {
					fmt.Printf("[%s] status -> %s\n", ev.Server, ev.Status)
				})
				client.OnLogin(func(ev proto.PlayerEvent) {
					fmt.Printf("[%s] %s logged in\n", ev.Server, ev.Player)
				})
				client.OnLogout(func(ev proto.PlayerEvent) {
					fmt.Printf("[%s] %s logged out\n", ev.Server, ev.Player)
				})
				client.OnAny(func(ev proto.AnyEvent) {
					fmt.Printf("[%s] %s %s\n", ev.Server, ev.Event, string(ev.Data))
				})

				disconnected := make(chan struct{})
				client.OnDisconnect(func() { close(disconnected) })

				fmt.Println("watching; Ctrl+C to exit")
				select {
				case <-ctx.Done():
				case <-disconnected:
					fmt.Println("supervisor closed the connection")
				}
				return nil
			})
		},
	}
}
