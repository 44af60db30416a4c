// Package cli wires configuration, settings and the scan controller behind
// the treescan command line.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/treescan/internal/config"
	"github.com/lumipallolabs/treescan/internal/core"
	"github.com/lumipallolabs/treescan/internal/logging"
	"github.com/lumipallolabs/treescan/internal/matcher"
	"github.com/lumipallolabs/treescan/internal/scanner"
	"github.com/lumipallolabs/treescan/internal/settings"
	"github.com/lumipallolabs/treescan/internal/ui"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type rootOptions struct {
	pattern    string
	syntax     string
	configPath string
	headless   bool
	watch      bool
}

// NewRootCommand creates the treescan command
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "treescan [root]",
		Short: "Incrementally find files whose names match a pattern",
		Long: `Treescan walks a directory one path at a time and builds a tree of the
files whose names match a regular expression (or glob). Scans can be paused,
resumed and cancelled from the terminal UI.

The root and pattern default to the values used last time.`,
		Args:    cobra.MaximumNArgs(1),
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var root string
			if len(args) == 1 {
				root = args[0]
			}
			return run(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pattern, "pattern", "p", "", "pattern matched against file names (default: last used, then .*)")
	cmd.Flags().StringVar(&opts.syntax, "syntax", "", "pattern syntax: regex or glob (default from config)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: ./treescan.yaml or ~/.treescan/treescan.yaml)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "scan once and print the tree instead of starting the UI")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "keep adding new files to the tree after the scan completes")

	return cmd
}

func run(cmd *cobra.Command, root string, opts rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	logging.SetLevel(cfg.LogLevel)

	syntax := cfg.Syntax
	if cmd.Flags().Changed("syntax") {
		if syntax, err = matcher.ParseSyntax(opts.syntax); err != nil {
			return err
		}
	}

	store := settings.NewStore(cfg.SettingsPath)
	ctrl, err := core.NewController(core.Options{
		Root:    root,
		Pattern: opts.pattern,
		Syntax:  syntax,
		Cursor: scanner.CursorOptions{
			SkipHidden:     cfg.SkipHidden,
			FollowSymlinks: cfg.FollowSymlinks,
		},
		TickInterval:     cfg.TickInterval,
		ProgressInterval: cfg.ProgressInterval,
		Watch:            (cfg.Watch || opts.watch) && !opts.headless,
		Settings:         store,
	})
	if err != nil {
		_ = store.Close()
		return err
	}
	logging.Debug.Printf("[CLI] settings %s, syntax %s", store.Path(), syntax)

	if opts.headless {
		return runHeadless(cmd.Context(), ctrl, cmd.OutOrStdout())
	}
	return runTUI(ctrl)
}

func runTUI(ctrl *core.Controller) error {
	defer ctrl.Close()

	p := tea.NewProgram(
		ui.NewApp(ctrl),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
