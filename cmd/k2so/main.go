package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/calvinmclean/k2so"
	"github.com/calvinmclean/k2so/clock"
	"github.com/calvinmclean/k2so/config"
	"github.com/calvinmclean/k2so/controller"
	"github.com/calvinmclean/k2so/sim"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	port       string
	baud       string
	configPath string
	verbose    bool

	log *zap.SugaredLogger
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	opts := &options{}
	env := controller.ConfigFromEnv()

	cmd := &cobra.Command{
		Use:   "k2so",
		Short: "Talk to a K-2SO droid over USB serial or run one in the terminal",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("error creating logger: %w", err)
			}
			opts.log = log
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.port, "port", "p", env.SerialPort, fmt.Sprintf("serial port of the droid, or %q for a simulated droid", controller.SerialPortNone))
	cmd.PersistentFlags().StringVarP(&opts.baud, "baud", "b", env.BaudRate, "serial baud rate")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file for a simulated droid")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		consoleCommand(opts),
		portsCommand(),
		panelCommand(opts),
		uiCommand(opts),
		simCommand(opts),
		configCommand(opts),
	)
	return cmd
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

func (o *options) controllerConfig() controller.Config {
	return controller.Config{
		SerialPort: o.port,
		BaudRate:   o.baud,
	}
}

// loadConfig reads the config file, or the defaults when no file was given
func (o *options) loadConfig() (config.Config, config.Store, error) {
	if o.configPath == "" {
		return config.Default(), &config.MemoryStore{}, nil
	}

	store := config.FileStore{Path: o.configPath}
	cfg, err := store.Load()
	if errors.Is(err, config.ErrOutOfRange) {
		o.log.Warnw("config values were clamped", "path", o.configPath, "error", err)
		err = nil
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("error loading config: %w", err)
	}
	return cfg, store, nil
}

// newSim builds a simulated droid from the config flag. A nil log sends droid logs to the
// simulator's log area
func (o *options) newSim(player *sim.Player, log k2so.Logger) (*sim.Sim, error) {
	cfg, store, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	s, err := sim.New(cfg, player, log, rand.New(rand.NewSource(time.Now().UnixNano())), clock.NewMonotonic(0))
	if err != nil {
		return nil, err
	}
	s.SetStore(store)
	return s, nil
}

// connect opens the serial port, or starts a headless simulated droid for SerialPortNone
func (o *options) connect(ctx context.Context, cfg controller.Config) (*controller.Controller, io.Closer, error) {
	if cfg.SerialPort != controller.SerialPortNone {
		c, err := controller.New(cfg, o.log.Named("controller"))
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}

	o.log.Info("no serial port, running a simulated droid")
	s, err := o.newSim(nil, o.log.Named("droid"))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating simulated droid: %w", err)
	}
	go s.RunHeadless(ctx)
	return s.Console(), s, nil
}
