package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X codeextract/internal/ui/cli.Version=...".
var Version = "dev"

const defaultConfigPath = "codeextract.toml"

type cliOptions struct {
	configPath string
	baseDir    string
	sources    []string
	template   string
	skip       bool
	recursive  bool
	verbose    bool
	progress   bool
}

// NewRootCommand wires the extract, watch and version commands. Command
// output goes to out; logs and progress go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "codeextract",
		Short: "Extract documented Java methods and render them through a template",
		Long: `codeextract parses Java sources, collects every method with its
documentation comment, body and source span, and renders one text per source
directory through a Go template.

Example usage:
  codeextract extract                              # use ./codeextract.toml
  codeextract extract -s src/test/java/samples -t doc.tmpl
  codeextract watch --config build/codeextract.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "config file (TOML or YAML)")
	flags.StringVar(&opts.baseDir, "base-dir", "", "directory relative paths are resolved against")
	flags.StringSliceVarP(&opts.sources, "source", "s", nil, "source directory, repeatable (overrides config)")
	flags.StringVarP(&opts.template, "template", "t", "", "template file (overrides config)")
	flags.BoolVar(&opts.skip, "skip", false, "skip extraction entirely")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "include sources in subdirectories")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar")

	root.AddCommand(
		newExtractCommand(opts),
		newWatchCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newExtractCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Run one extraction and publish the outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts)
		},
	}
}

func newWatchCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run extraction whenever sources or the template change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "codeextract %s\n", Version)
		},
	}
}
