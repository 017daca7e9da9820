package cli

import (
	"fmt"

	"github.com/alexanderramin/stageplan/internal/cli/formatter"
	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage the stages of a project",
	}

	cmd.AddCommand(
		newStageAddCmd(app),
		newStageRenameCmd(app),
		newStageMoveCmd(app),
		newStageRemoveCmd(app),
	)

	return cmd
}

func newStageAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add PROJECT NAME...",
		Short: "Append stages to the end of the pipeline",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				stage, err := app.Store.AddStage(ctx, p.ID, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added stage %d. %s %s\n", stage.Order+1, formatter.Bold(stage.Name), formatter.TruncID(stage.ID))
			}
			return nil
		},
	}
}

func newStageRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT STAGE NAME",
		Short: "Rename a stage",
		Args:  cobra.ExactArgs(3),
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
			name := args[2]
			if _, err := app.Store.UpdateStage(ctx, p.ID, stage.ID, domain.StagePatch{Name: &name}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", stage.Name, formatter.Bold(name))
			return nil
		},
	}
}

func newStageMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move PROJECT STAGE POSITION",
		Short: "Move a stage to a 1-based position in the pipeline",
		Args:  cobra.ExactArgs(3),
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
			order, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			if err := app.Store.MoveStage(ctx, p.ID, stage.ID, order); err != nil {
				return err
			}
			updated, err := app.Store.GetProject(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to position %d\n", formatter.Bold(stage.Name), updated.StageByID(stage.ID).Order+1)
			return nil
		},
	}
}

func newStageRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PROJECT STAGE",
		Aliases: []string{"rm"},
		Short:   "Delete a stage and its subtasks",
		Args:    cobra.ExactArgs(2),
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
			n := len(p.SubtasksInStage(stage.ID))
			if err := app.Store.DeleteStage(ctx, p.ID, stage.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed stage %s and %s\n", formatter.Bold(stage.Name), formatter.Pluralize(n, "subtask"))
			return nil
		},
	}
}
