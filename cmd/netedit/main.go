package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"netedit/internal/netlist"
	"netedit/internal/project"
	"netedit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "netedit",
	Short: "SPICE netlist inspection and editing toolchain",
	Long: `netedit parses SPICE netlists and edits them structurally: component
values, models and parameters, simulation directives and subcircuit
definitions. Everything it does not touch is written back byte for byte.`,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(paramCmd)
	rootCmd.AddCommand(directiveCmd)
	rootCmd.AddCommand(subcktCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("encoding", "", "netlist file encoding (default autodetect)")
	rootCmd.PersistentFlags().StringArray("lib", nil, "extra library search directory (repeatable)")

	cobra.OnInitialize(configureOutput)
}

// main executes the root command. A command error exits with status 1;
// cobra already printed it.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// configureOutput applies the --color and --quiet persistent flags to the
// color package and the default slog logger.
func configureOutput() {
	switch mode, _ := rootCmd.PersistentFlags().GetString("color"); mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}

	level := slog.LevelInfo
	if quiet, _ := rootCmd.PersistentFlags().GetBool("quiet"); quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openNetlist opens the netlist named by the command argument, combining
// the persistent flags with any netedit.toml manifest found above the
// netlist file.
func openNetlist(cmd *cobra.Command, path string) (*netlist.Editor, error) {
	encoding, err := cmd.Root().PersistentFlags().GetString("encoding")
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding flag: %w", err)
	}
	libs, err := cmd.Root().PersistentFlags().GetStringArray("lib")
	if err != nil {
		return nil, fmt.Errorf("failed to get lib flag: %w", err)
	}

	manifest, found, err := project.Load(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if found {
		libs = append(libs, manifest.Config.Library.Paths...)
		if encoding == "" {
			encoding = manifest.Config.Encoding.Name
		}
	}

	opts := []netlist.Option{netlist.WithLibraryPaths(libs...)}
	if encoding != "" {
		opts = append(opts, netlist.WithEncoding(encoding))
	}
	return netlist.New(path, opts...)
}
