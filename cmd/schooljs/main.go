package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/deepnoodle-ai/schooljs"
	"github.com/deepnoodle-ai/schooljs/compiler"
	"github.com/deepnoodle-ai/schooljs/runtime"
)

// fileConfig is the optional schooljs.toml configuration.
type fileConfig struct {
	Mode          string `toml:"mode"`
	TestTimeoutMS int    `toml:"test_timeout_ms"`
	Color         *bool  `toml:"color"`
}

func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return cfg, nil
}

func (c *fileConfig) mode() (compiler.Mode, error) {
	switch c.Mode {
	case "", "preloaded":
		return compiler.ModePreloaded, nil
	case "standalone":
		return compiler.ModeStandalone, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want \"preloaded\" or \"standalone\")", c.Mode)
	}
}

func (c *fileConfig) styled() bool {
	if c.Color != nil {
		return *c.Color
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func (c *fileConfig) testTimeout() time.Duration {
	if c.TestTimeoutMS > 0 {
		return time.Duration(c.TestTimeoutMS) * time.Millisecond
	}
	return runtime.DefaultTestTimeout
}

func newLogger(verbose bool) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("%s", err.Error()))
	os.Exit(1)
}

func main() {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:          "schooljs",
		Short:        "Run programs written in a checked teaching subset of JavaScript",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "schooljs.toml",
		"path to the configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run <file> [file...]",
		Short: "Compile and run one or more programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.mode()
			if err != nil {
				return err
			}
			logger := newLogger(verbose)
			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(4)
			for _, path := range args {
				path := path
				group.Go(func() error {
					source, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					_, err = schooljs.Eval(ctx, string(source),
						schooljs.WithFilename(path),
						schooljs.WithMode(mode),
						schooljs.WithLogger(logger))
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					return nil
				})
			}
			return group.Wait()
		},
	}

	astCmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the instrumented form of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.mode()
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			program, err := schooljs.Compile(cmd.Context(), string(source),
				schooljs.WithFilename(args[0]),
				schooljs.WithMode(mode))
			if err != nil {
				return err
			}
			fmt.Println(program.String())
			return nil
		},
	}

	testCmd := &cobra.Command{
		Use:   "test <file>",
		Short: "Run a program with the test harness enabled and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			mode, err := cfg.mode()
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			session := runtime.NewSession()
			session.EnableTests(true, cfg.testTimeout())
			_, err = schooljs.Eval(cmd.Context(), string(source),
				schooljs.WithFilename(args[0]),
				schooljs.WithMode(mode),
				schooljs.WithSession(session),
				schooljs.WithLogger(newLogger(verbose)))
			if err != nil {
				return err
			}
			if !session.Enabled() {
				// The program printed its own summary.
				return nil
			}
			result, err := session.Summary(cfg.styled())
			if err != nil {
				return err
			}
			fmt.Print(result.Output)
			failed := false
			for _, rec := range result.Records {
				if rec.Failed {
					failed = true
				}
			}
			if failed {
				os.Exit(1)
			}
			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the runtime version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(runtime.Version)
		},
	}

	root.AddCommand(runCmd, astCmd, testCmd, versionCmd)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fatal(err)
	}
}
