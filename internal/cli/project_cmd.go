package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alexanderramin/stageplan/internal/cli/formatter"
	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/importer"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectDoneAllCmd(app),
		newProjectExportCmd(app),
		newProjectImportCmd(app),
		newProjectUndoCmd(app),
	)

	return cmd
}

// metadataFlags binds the project metadata flags shared by add and update.
type metadataFlags struct {
	number, client, site, crs, notes string
	start, end                       *time.Time
	equipment, personnel             []string
}

func (m *metadataFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&m.number, "number", "", "Project number")
	f.StringVar(&m.client, "client", "", "Client name")
	f.StringVar(&m.site, "site", "", "Site or location")
	f.StringVar(&m.crs, "crs", "", "Coordinate system")
	f.StringVar(&m.notes, "notes", "", "Outcome notes")
	f.Var(dateValue{&m.start}, "start", "Start date (YYYY-MM-DD)")
	f.Var(dateValue{&m.end}, "end", "End date (YYYY-MM-DD)")
	f.StringSliceVar(&m.equipment, "equipment", nil, "Equipment list (comma separated)")
	f.StringSliceVar(&m.personnel, "personnel", nil, "Personnel list (comma separated)")
}

// apply copies the flags that were set onto md. It reports whether any
// metadata flag was given.
func (m *metadataFlags) apply(cmd *cobra.Command, md *domain.Metadata) bool {
	f := cmd.Flags()
	changed := false
	set := func(name string, fn func()) {
		if f.Changed(name) {
			fn()
			changed = true
		}
	}
	set("number", func() { md.ProjectNumber = m.number })
	set("client", func() { md.Client = m.client })
	set("site", func() { md.Site = m.site })
	set("crs", func() { md.CoordinateSystem = m.crs })
	set("notes", func() { md.OutcomeNotes = m.notes })
	set("start", func() { md.StartDate = m.start })
	set("end", func() { md.EndDate = m.end })
	set("equipment", func() { md.Equipment = m.equipment })
	set("personnel", func() { md.Personnel = m.personnel })
	return changed
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		name, description string
		status            domain.ProjectStatus
		budget            float64
		stages            []string
		meta              metadataFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in := domain.NewProject{
				Name:        name,
				Description: description,
				Status:      status,
				Budget:      optionalFloat(cmd.Flags(), "budget", budget),
			}
			meta.apply(cmd, &in.Metadata)

			if name == "" {
				if !app.interactive() {
					return &domain.ValidationError{Field: "name", Reason: "--name is required"}
				}
				var v projectFormValues
				if err := projectForm(&v).Run(); err != nil {
					return err
				}
				if err := fillFromForm(&in, v); err != nil {
					return err
				}
				stages = append(stages, splitList(v.Stages)...)
			}

			p, err := app.Store.CreateProject(ctx, in)
			if err != nil {
				return err
			}
			for _, s := range stages {
				if _, err := app.Store.AddStage(ctx, p.ID, s); err != nil {
					return fmt.Errorf("adding stage %q: %w", s, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s %s\n", formatter.Bold(p.Name), formatter.TruncID(p.ID))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Project name (prompted when omitted on a terminal)")
	f.StringVar(&description, "description", "", "Project description")
	f.Var(projectStatusValue{&status}, "status", "Initial status (default \"Not Started\")")
	f.Float64Var(&budget, "budget", 0, "Budget amount")
	f.StringSliceVar(&stages, "stages", nil, "Initial stages in pipeline order (comma separated)")
	meta.bind(cmd)

	return cmd
}

func fillFromForm(in *domain.NewProject, v projectFormValues) error {
	in.Name = v.Name
	in.Description = v.Description
	if v.Budget != "" {
		b, err := strconv.ParseFloat(v.Budget, 64)
		if err != nil {
			return &domain.ValidationError{Field: "budget", Reason: "not a number"}
		}
		in.Budget = &b
	}
	for _, d := range []struct {
		raw    string
		target **time.Time
	}{{v.StartDate, &in.Metadata.StartDate}, {v.EndDate, &in.Metadata.EndDate}} {
		if d.raw == "" {
			continue
		}
		if err := (dateValue{d.target}).Set(d.raw); err != nil {
			return err
		}
	}
	return nil
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects := app.Store.ListProjects(cmd.Context())
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "show PROJECT",
		Aliases: []string{"inspect"},
		Short:   "Show project details and its board",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var (
		name, description string
		status            domain.ProjectStatus
		budget            float64
		clearBudget       bool
		meta              metadataFlags
		outcomes          domain.Outcomes
	)

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			patch := domain.ProjectPatch{
				Name:        optionalString(f, "name", name),
				Description: optionalString(f, "description", description),
				Budget:      optionalFloat(f, "budget", budget),
				ClearBudget: clearBudget,
			}
			if f.Changed("status") {
				patch.Status = &status
			}
			md := p.Metadata
			if meta.apply(cmd, &md) {
				patch.Metadata = &md
			}
			oc := p.Outcomes
			if applyOutcomes(cmd, &outcomes, &oc) {
				patch.Outcomes = &oc
			}

			updated, err := app.Store.UpdateProject(ctx, p.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", formatter.Bold(updated.Name))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "Project name")
	f.StringVar(&description, "description", "", "Project description")
	f.Var(projectStatusValue{&status}, "status", "Project status")
	f.Float64Var(&budget, "budget", 0, "Budget amount")
	f.BoolVar(&clearBudget, "clear-budget", false, "Remove the budget")
	cmd.MarkFlagsMutuallyExclusive("budget", "clear-budget")
	meta.bind(cmd)
	f.StringVar(&outcomes.KeyFindings, "key-findings", "", "Key findings")
	f.StringVar(&outcomes.Conclusions, "conclusions", "", "Conclusions")
	f.StringVar(&outcomes.Recommendations, "recommendations", "", "Recommendations")
	f.StringVar(&outcomes.Achievements, "achievements", "", "Achievements")
	f.StringVar(&outcomes.Challenges, "challenges", "", "Challenges")
	f.StringVar(&outcomes.LessonsLearned, "lessons-learned", "", "Lessons learned")

	return cmd
}

func applyOutcomes(cmd *cobra.Command, flags, o *domain.Outcomes) bool {
	f := cmd.Flags()
	changed := false
	for name, pair := range map[string][2]*string{
		"key-findings":    {&o.KeyFindings, &flags.KeyFindings},
		"conclusions":     {&o.Conclusions, &flags.Conclusions},
		"recommendations": {&o.Recommendations, &flags.Recommendations},
		"achievements":    {&o.Achievements, &flags.Achievements},
		"challenges":      {&o.Challenges, &flags.Challenges},
		"lessons-learned": {&o.LessonsLearned, &flags.LessonsLearned},
	} {
		if f.Changed(name) {
			*pair[0] = *pair[1]
			changed = true
		}
	}
	return changed
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove PROJECT",
		Aliases: []string{"rm"},
		Short:   "Delete a project with all its stages and subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return &domain.ValidationError{Field: "yes", Reason: "pass --yes to remove " + strconv.Quote(p.Name)}
				}
				if err := confirmForm(fmt.Sprintf("Delete %q and its %d subtasks?", p.Name, len(p.Subtasks)), &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := app.Store.DeleteProject(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newProjectUndoCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Restore all projects as they were before the last change",
		Long: `Restore the whole project collection to its state before the most recent
change. Running undo twice in a row returns to where you started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				if !app.interactive() {
					return &domain.ValidationError{Field: "yes", Reason: "pass --yes to undo the last change"}
				}
				if err := confirmForm("Undo the last change to your projects?", &yes).Run(); err != nil {
					return err
				}
				if !yes {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			n, err := app.Store.RestorePrevious(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", formatter.Pluralize(n, "project"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

func newProjectDoneAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done-all PROJECT",
		Short: "Mark every subtask of a project as done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.MarkAllSubtasksAsDone(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s done in %s\n", formatter.Pluralize(len(p.Subtasks), "subtask"), formatter.Bold(p.Name))
			return nil
		},
	}
}

func newProjectExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Write a project as a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			doc, err := app.Import.ExportProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return importer.Encode(cmd.OutOrStdout(), doc)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := importer.Encode(f, doc); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", p.Name, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create a project from a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s with %s and %s\n",
				formatter.Bold(res.Project.Name),
				formatter.TruncID(res.Project.ID),
				formatter.Pluralize(res.StageCount, "stage"),
				formatter.Pluralize(res.SubtaskCount, "subtask"),
			)
			return nil
		},
	}
}
