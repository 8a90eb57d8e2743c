package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/panel"
	"github.com/calvinmclean/k2so/sim"
	"github.com/calvinmclean/k2so/ui"

	"github.com/spf13/cobra"
)

func consoleCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Relay lines from stdin to the droid console and print the replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := opts.connect(cmd.Context(), opts.controllerConfig())
			if err != nil {
				return err
			}
			defer closer.Close()

			return c.Run(cmd.Context(), os.Stdin, os.Stdout)
		},
	}
}

func portsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List USB serial ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := controller.GetSerialPorts()
			if err != nil {
				return err
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func panelCommand(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Serve the HTTP control panel and the profile library",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := opts.connect(cmd.Context(), opts.controllerConfig())
			if err != nil {
				return err
			}
			defer closer.Close()

			return serve(cmd.Context(), addr, panel.New(c, opts.log.Named("panel")).Router(), opts)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

// serve runs an HTTP server until ctx is done
func serve(ctx context.Context, addr string, handler http.Handler, opts *options) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	opts.log.Infow("serving panel", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func uiCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop control window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Run(cmd.Context(), func(cfg controller.Config) (ui.Droid, io.Closer, error) {
				return opts.connect(cmd.Context(), cfg)
			})
			return nil
		},
	}
}

func simCommand(opts *options) *cobra.Command {
	var panelAddr string
	var mute bool
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a droid in the terminal with the keyboard as its remote",
		Long: `sim draws the eyes, detail strip and status pixel in the terminal.

Arrow keys and Enter are the remote's arrows and OK, digits, * and # are the
remaining buttons. ':' opens a console prompt, p cycles the personality,
s sleeps, w wakes and q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var player *sim.Player
			if !mute {
				var err error
				player, err = sim.NewPlayer()
				if err != nil {
					opts.log.Warnw("running without sound", "error", err)
					player = nil
				}
			}

			s, err := opts.newSim(player, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if panelAddr != "" {
				go func() {
					err := serve(ctx, panelAddr, panel.New(s.Console(), nil).Router(), opts)
					if err != nil {
						opts.log.Errorw("panel stopped", "error", err)
					}
				}()
			}

			return s.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&panelAddr, "panel", "", "also serve the HTTP panel on this address")
	cmd.Flags().BoolVar(&mute, "mute", false, "do not open the speaker")
	return cmd
}

func configCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with droid config files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init FILE",
		Short: "Write the default config to a .yaml or .toml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			return config.Save(args[0], config.Default())
		},
	})

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the config file given by --config after validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(opts.configPath), ".")
				if format == "" || format == "yml" {
					format = "yaml"
				}
			}
			data, err := config.Encode(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "", "yaml or toml")
	cmd.AddCommand(show)

	return cmd
}
