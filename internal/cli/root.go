package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockroom/internal/catalog"
	"stockroom/internal/config"
	"stockroom/internal/logx"
	"stockroom/internal/tui"
)

type App struct {
	Collection string
	Backend    string
	PrettyJSON bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "stockroom",
		Short:         "Catalog client (CLI + TUI) over a remote item collection",
		SilenceUsage:  true,
		SilenceErrors: true, // printed once by Execute
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  stockroom

  # Scriptable commands
  stockroom items list
  stockroom items list --search bolt --sort price --order desc
  stockroom items add --name Bolt --description "M4 hex bolt" --price 2.0
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// Flags override the environment.
		if strings.TrimSpace(app.Collection) != "" {
			cfg.Collection = strings.TrimSpace(app.Collection)
		}
		if strings.TrimSpace(app.Backend) != "" {
			cfg.Bridge.Backend = strings.TrimSpace(app.Backend)
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Collection, "collection", envOr("STOCKROOM_COLLECTION", ""), "Remote collection name (default: items)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("STOCKROOM_BACKEND", ""), "Bridge backend (sqlite|mongo)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newItemsCmd(app))
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runTUI(app *App) error {
	closeLog, err := logx.InitTUI(app.cfg.LogPath)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx := context.Background()
	b, closer, err := app.cfg.Bridge.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close(ctx) }()

	orc := catalog.NewOrchestrator(b, app.cfg.Collection, logx.Logger())
	return tui.Run(orc, app.cfg.Collection)
}

// openOrchestrator wires a bridge-backed orchestrator for one-shot CLI
// commands. The returned cleanup is always safe to defer.
func openOrchestrator(ctx context.Context, app *App) (*catalog.Orchestrator, func(), error) {
	logx.InitCLI(app.cfg.Environment.IsProduction())
	b, closer, err := app.cfg.Bridge.Open(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	orc := catalog.NewOrchestrator(b, app.cfg.Collection, logx.Logger())
	return orc, func() { _ = closer.Close(ctx) }, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
