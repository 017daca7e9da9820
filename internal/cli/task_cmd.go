package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/stageplan/internal/cli/formatter"
	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage subtasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskAddManyCmd(app),
		newTaskUpdateCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

// subtaskFlags binds the per-subtask fields shared by add and update.
type subtaskFlags struct {
	description          string
	status               domain.SubtaskStatus
	cost                 float64
	start, end, deadline *time.Time
}

func (s *subtaskFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&s.description, "description", "", "Subtask description")
	f.Var(subtaskStatusValue{&s.status}, "status", "Status: todo, in-progress, done, blocked")
	f.Float64Var(&s.cost, "cost", 0, "Cost")
	f.Var(dateValue{&s.start}, "start", "Start date (YYYY-MM-DD)")
	f.Var(dateValue{&s.end}, "end", "End date (YYYY-MM-DD)")
	f.Var(dateValue{&s.deadline}, "deadline", "Suggested deadline (YYYY-MM-DD)")
}

func newTaskAddCmd(app *App) *cobra.Command {
	var sf subtaskFlags

	cmd := &cobra.Command{
		Use:   "add PROJECT STAGE NAME",
		Short: "Append a subtask to a stage",
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
			st, err := app.Store.AddSubtask(ctx, p.ID, stage.ID, domain.SubtaskInput{
				Name:              args[2],
				Description:       sf.description,
				Status:            sf.status,
				StartDate:         sf.start,
				EndDate:           sf.end,
				SuggestedDeadline: sf.deadline,
				Cost:              optionalFloat(cmd.Flags(), "cost", sf.cost),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s to %s\n", formatter.Bold(st.Name), formatter.TruncID(st.ID), stage.Name)
			return nil
		},
	}

	sf.bind(cmd)

	return cmd
}

func newTaskAddManyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add-many PROJECT STAGE NAME...",
		Short: "Append several subtasks to a stage in one step",
		Args:  cobra.MinimumNArgs(3),
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
			inputs := make([]domain.SubtaskInput, 0, len(args)-2)
			for _, name := range args[2:] {
				inputs = append(inputs, domain.SubtaskInput{Name: name})
			}
			created, err := app.Store.AddMultipleSubtasks(ctx, p.ID, stage.ID, inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", formatter.Pluralize(len(created), "subtask"), formatter.Bold(stage.Name))
			return nil
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var (
		sf        subtaskFlags
		name      string
		clearCost bool
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT TASK",
		Short: "Update subtask fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := resolveSubtask(p, args[1])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			patch := domain.SubtaskPatch{
				Name:              optionalString(f, "name", name),
				Description:       optionalString(f, "description", sf.description),
				StartDate:         sf.start,
				EndDate:           sf.end,
				SuggestedDeadline: sf.deadline,
				Cost:              optionalFloat(f, "cost", sf.cost),
				ClearCost:         clearCost,
			}
			if f.Changed("status") {
				patch.Status = &sf.status
			}
			updated, err := app.Store.UpdateSubtask(ctx, p.ID, st.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.Bold(updated.Name), formatter.SubtaskStatusPill(updated.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Subtask name")
	cmd.Flags().BoolVar(&clearCost, "clear-cost", false, "Remove the cost")
	sf.bind(cmd)
	cmd.MarkFlagsMutuallyExclusive("cost", "clear-cost")

	return cmd
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "move PROJECT TASK STAGE",
		Short: "Move a subtask to a stage, at the end unless --position is given",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := resolveSubtask(p, args[1])
			if err != nil {
				return err
			}
			stage, err := resolveStage(p, args[2])
			if err != nil {
				return err
			}
			order := len(p.SubtasksInStage(stage.ID))
			if position != "" {
				if order, err = parsePosition(position); err != nil {
					return err
				}
			}
			if err := app.Store.MoveSubtask(ctx, p.ID, st.ID, stage.ID, order); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", formatter.Bold(st.Name), stage.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&position, "position", "", "1-based position within the stage")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PROJECT TASK",
		Aliases: []string{"rm"},
		Short:   "Delete a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := resolveSubtask(p, args[1])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteSubtask(ctx, p.ID, st.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", formatter.Bold(st.Name))
			return nil
		},
	}
}
