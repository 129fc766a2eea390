package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/incgraph/internal/config"
)

const configHeader = `# incgraph configuration.
#
# blacklist          root-relative path prefixes or exact names to skip
# known_headers      extra system headers never reported as unknown
# externals          headers that map to a predefined library component
# respect_gitignore  skip paths ignored by the root .gitignore
# max_file_size      skip files larger than this many bytes
# workers            concurrent file scans, 0 uses every CPU
# cache_size         scanned files remembered between reloads in --watch mode
`

type initOptions struct {
	dryRun bool
	force  bool
}

// newInitCommand builds the `incgraph init` subcommand, which writes a
// starter config file into a project.
func newInitCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter " + config.FileName + " into a project",
		Long: `Write a starter ` + config.FileName + ` with the default settings into the
project directory. path defaults to the current directory. An existing file
is left alone unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir, opts, stdout, stderr)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print what would be written without creating the file")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func runInit(dir string, opts initOptions, stdout, stderr io.Writer) error {
	content, err := starterConfig()
	if err != nil {
		return err
	}

	if opts.dryRun {
		_, _ = fmt.Fprint(stdout, content)
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", dir)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}

// starterConfig renders the default configuration with a short key guide.
func starterConfig() (string, error) {
	cfg := config.Default()
	cfg.Workers = 0

	body, err := config.Encode(cfg)
	if err != nil {
		return "", err
	}
	return configHeader + "\n" + body, nil
}
