package cli

import (
	"context"

	"github.com/alexanderramin/stageplan/internal/service"
	"github.com/alexanderramin/stageplan/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds the store and services used by CLI commands.
type App struct {
	Store  *store.Store
	Assist service.AssistService
	Import service.ImportService

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool

	// Setup fills the fields above once the global flags are parsed. Tests
	// build the App directly and leave it nil.
	Setup func(ctx context.Context, flags *pflag.FlagSet) error
	ready bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "stageplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "stageplan",
		Short:         "Stage-based project planner with AI assistance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.ready || app.Setup == nil {
				return nil
			}
			if err := app.Setup(cmd.Context(), cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			app.ready = true
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.stageplan/config.yaml)")
	flags.String("db", "", "SQLite database path (default ~/.stageplan/stageplan.db)")
	flags.BoolP("verbose", "v", false, "log store and service activity to stderr")

	root.AddCommand(
		newProjectCmd(app),
		newStageCmd(app),
		newTaskCmd(app),
		newAICmd(app),
	)

	return root
}
