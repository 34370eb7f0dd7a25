package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/fixture"
	"github.com/funvibe/overload/internal/logging"
	"github.com/funvibe/overload/internal/pipeline"
)

func main() {
	if os.Getenv(config.EnvTestMode) != "" {
		config.IsTestMode = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// options holds the persistent flag values.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	color      string
	parallel   bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "overload",
		Short:         "Resolve overloaded method calls described by YAML fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigFileName, "config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&opts.color, "color", "", "colour output: auto, always, never")
	flags.BoolVar(&opts.parallel, "parallel", true, "search imports concurrently")

	root.AddCommand(
		&cobra.Command{
			Use:   "resolve FILE...",
			Short: "Print the resolution result of every call",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, args, stdout, stderr, (*reporter).outcome)
			},
		},
		&cobra.Command{
			Use:   "candidates FILE...",
			Short: "Print every collected candidate and its verdict",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, args, stdout, stderr, (*reporter).candidates)
			},
		},
	)
	return root
}

// loadConfig layers the config file, the environment and explicit flags.
// The default config file is optional; one named with --config is not.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	flags := cmd.Flags()
	cfg, err := config.LoadConfig(opts.configPath, !flags.Changed("config"))
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("color") {
		cfg.Color = opts.color
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer, print func(*reporter, pipeline.Outcome)) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	files, err := collectFixtures(args)
	if err != nil {
		return err
	}

	logger := logging.New(cfg, stderr)
	rep := newReporter(stdout, cfg.Color)
	stages := pipeline.New(
		&fixture.ReadProcessor{},
		&fixture.LoadProcessor{},
		&fixture.ResolveProcessor{},
	)

	failed := 0
	for _, path := range files {
		ctx := pipeline.NewPipelineContext(nil)
		ctx.Context = cmd.Context()
		ctx.Config = cfg
		ctx.Logger = logger.With("fixture", path)
		ctx.FilePath = path

		ctx = stages.Run(ctx)

		rep.header(path)
		for _, out := range ctx.Outcomes {
			print(rep, out)
		}
		if len(ctx.Errors) > 0 {
			failed++
			fmt.Fprintln(stderr, "Fixture failed with errors:")
			for _, err := range ctx.Errors {
				fmt.Fprintf(stderr, "- %s\n", err.Error())
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d fixtures failed", failed, len(files))
	}
	return nil
}

// collectFixtures expands directories into the fixture files they contain,
// sorted by name. Files named explicitly are kept whatever their extension.
func collectFixtures(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && config.HasFixtureExt(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
