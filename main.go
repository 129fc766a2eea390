// incgraph infers the component graph of a C/C++ source tree from its
// #include directives and prints it in TOON format.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phobologic/incgraph/internal/config"
	"github.com/phobologic/incgraph/internal/focus"
	"github.com/phobologic/incgraph/internal/model"
	"github.com/phobologic/incgraph/internal/project"
	"github.com/phobologic/incgraph/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

type rootOptions struct {
	configPath  string
	components  []string
	output      string
	watch       bool
	verbose     bool
	showVersion bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "incgraph [path]",
		Short: "Infer the component graph of a C/C++ project from its includes",
		Long: `Walk a C/C++ source tree, treat every directory holding an include/ or
src/ subdirectory as a component, and infer from the #include directives
which components depend on each other, which headers are public, and which
include paths each component needs. The result is printed in TOON format.

path defaults to the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				_, _ = fmt.Fprintf(stdout, "%s %s\n", config.AppName, version)
				return nil
			}
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runGraph(cmd.Context(), root, opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default <path>/"+config.FileName+")")
	flags.StringArrayVarP(&opts.components, "component", "c", nil, "only report components matching this name and their dependencies (repeatable)")
	flags.StringVarP(&opts.output, "output", "o", "", "also write the report to this file")
	flags.BoolVar(&opts.watch, "watch", false, "keep running and print a new report whenever sources change")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&opts.showVersion, "version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCommand(stdout, stderr))
	return cmd
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func runGraph(ctx context.Context, root string, opts rootOptions, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.verbose)

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	cfg, err := config.Load(ctx, config.LoadOptions{
		ConfigFilePath: opts.configPath,
		ProjectRoot:    root,
	})
	if err != nil {
		return err
	}

	svc, err := project.New(root, cfg, logger)
	if err != nil {
		return err
	}

	g, err := svc.Reload(ctx)
	if err != nil {
		return err
	}
	if len(g.Components) == 0 {
		return fmt.Errorf("no components found under %s", root)
	}

	for _, p := range opts.components {
		if len(focus.Matching(g, p)) == 0 {
			return fmt.Errorf("no component matches %q", p)
		}
	}

	if err := report(g, opts, stdout, logger); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	logger.Info("watching for changes", "root", root)
	return svc.Watch(ctx, 0, func(g *model.Graph) {
		if err := report(g, opts, stdout, logger); err != nil {
			logger.Error("writing report", "err", err)
		}
	})
}

// report logs the diagnostics of g and prints the focused graph.
func report(g *model.Graph, opts rootOptions, stdout io.Writer, logger *log.Logger) error {
	focused := focus.Components(g, opts.components)

	for _, d := range focused.Diagnostics() {
		switch d.Severity {
		case model.SeverityWarning:
			logger.Warn(d.Message, "code", d.Code)
		default:
			logger.Info(d.Message, "code", d.Code)
		}
	}

	output := toon.Encode(focused)
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(output+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.output, err)
		}
	}
	_, _ = fmt.Fprintln(stdout, output)
	return nil
}
