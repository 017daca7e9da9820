package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/stageplan/internal/cli/formatter"
	"github.com/alexanderramin/stageplan/internal/llm"
	"github.com/alexanderramin/stageplan/internal/service"
	"github.com/spf13/cobra"
)

var errAIDisabled = errors.New("AI features are disabled; set llm.enabled: true in ~/.stageplan/config.yaml or STAGEPLAN_LLM_ENABLED=true")

func newAICmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "AI-assisted planning",
	}

	cmd.AddCommand(
		newAISuggestCmd(app),
		newAIOrganizeCmd(app),
		newAISummaryCmd(app),
	)

	return cmd
}

// assistError swaps the disabled-client error for setup instructions.
func assistError(err error) error {
	if errors.Is(err, llm.ErrDisabled) {
		return errAIDisabled
	}
	return err
}

func newAISuggestCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "suggest PROJECT STAGE",
		Short: "Suggest new subtasks for a stage and add them",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			stage, err := resolveStage(p, args[1])
			if err != nil {
				return err
			}
			res, err := app.Assist.SuggestSubtasks(ctx, service.SuggestRequest{ProjectID: p.ID, StageID: stage.ID, DryRun: dryRun})
			if err != nil {
				return assistError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestions(stage.Name, res.Suggested, res.Added))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show suggestions without adding them")

	return cmd
}

func newAIOrganizeCmd(app *App) *cobra.Command {
	var showBoard bool

	cmd := &cobra.Command{
		Use:   "organize PROJECT",
		Short: "Re-sort existing subtasks into stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Assist.OrganizeSubtasks(ctx, p.ID)
			if err != nil {
				return assistError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrganizeReport(res.Report))
			if showBoard {
				fmt.Fprint(cmd.OutOrStdout(), "\n"+formatter.FormatBoard(res.Project))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showBoard, "board", true, "Print the board afterwards")

	return cmd
}

func newAISummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary PROJECT",
		Short: "Generate and store an executive summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			text, err := app.Assist.GenerateExecutiveSummary(ctx, p.ID)
			if err != nil {
				return assistError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExecutiveSummary(text))
			return nil
		},
	}
}
