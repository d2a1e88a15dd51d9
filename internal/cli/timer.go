package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcuo/clockify-cli/internal/formatter"
	"github.com/arcuo/clockify-cli/internal/tracker"
)

// entryFlags binds the flags shared by start and entry.
func entryFlags(cmd *cobra.Command, opts *tracker.EntryOptions) {
	cmd.Flags().StringVarP(&opts.Workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "Project name (default is set with set_project)")
	cmd.Flags().BoolVarP(&opts.Billable, "billable", "b", false, "Set if entry is billable")
	cmd.Flags().StringArrayVarP(&opts.Tags, "tag", "t", nil, "Tag id, repeat for multiple tags")
	cmd.Flags().BoolVar(&opts.NoProject, "no-project", false, "Record the entry without a project")
}

func newStartCommand(a *app) *cobra.Command {
	var opts tracker.EntryOptions

	cmd := &cobra.Command{
		Use:   "start [description]",
		Short: "Start a new time entry",
		Example: `  clockify start "Writing docs"
  clockify start "Sprint planning" -w Acme -p Website -b -t 5f1a -t 5f1b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Description = strings.Join(args, " ")

			svc, err := a.service()
			if err != nil {
				return err
			}
			return a.mutation(cmd, "Starting timer", func(ctx context.Context) (string, error) {
				entry, err := svc.Start(ctx, opts)
				if err != nil {
					return "", err
				}
				if err := a.echo(cmd.OutOrStdout(), entry); err != nil {
					return "", err
				}
				return fmt.Sprintf("Timer started at %s", entry.TimeInterval.Start), nil
			})
		},
	}
	entryFlags(cmd, &opts)
	return cmd
}

func newFinishCommand(a *app) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Finish an on-going time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			return a.mutation(cmd, "Finishing timer", func(ctx context.Context) (string, error) {
				entry, err := svc.Finish(ctx, workspace)
				if err != nil {
					return "", err
				}
				if err := a.echo(cmd.OutOrStdout(), entry); err != nil {
					return "", err
				}

				msg := "Timer finished"
				if d, err := formatter.EntryDuration(*entry, svc.Formatter.Clock()); err == nil {
					msg += " after " + formatter.FormatDuration(d)
				}
				return msg, nil
			})
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	return cmd
}

func newEntryCommand(a *app) *cobra.Command {
	var opts tracker.EntryOptions

	cmd := &cobra.Command{
		Use:   "entry <duration>",
		Short: "Add a finished entry ending now",
		Long: `Add a time entry of the given length that ends now.

The duration is given as h, h:m or h:m:s, for example 2, 1:30 or 0:45:10.`,
		Example: `  clockify entry 1:30 -d "Code review" -p Backend`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			return a.mutation(cmd, "Adding entry", func(ctx context.Context) (string, error) {
				entry, err := svc.AddEntry(ctx, args[0], opts)
				if err != nil {
					return "", err
				}
				if err := a.echo(cmd.OutOrStdout(), entry); err != nil {
					return "", err
				}
				return fmt.Sprintf("Entry added from %s", entry.TimeInterval.Start), nil
			})
		},
	}
	entryFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Entry description")
	return cmd
}

func newInProgressCommand(a *app) *cobra.Command {
	var (
		workspace string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "in-progress",
		Short: "Show the running time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.outputFormat(format)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			entry, err := svc.InProgress(cmd.Context(), workspace)
			if err != nil {
				return err
			}

			var projects map[string]string
			if entry.ProjectID != "" && f != formatter.FormatJSON && f != formatter.FormatYAML {
				projects = a.projectNames(cmd.Context(), svc, entry.WorkspaceID)
			}
			return a.renderer(cmd, f).Entry(entry, projects)
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml|markdown)")
	return cmd
}

// projectNames maps project ids to names for display. Failures only cost
// the names.
func (a *app) projectNames(ctx context.Context, svc *tracker.Service, workspaceID string) map[string]string {
	if workspaceID == "" {
		return nil
	}
	byName, err := svc.API.ProjectNames(ctx, workspaceID)
	if err != nil {
		a.log.Debugf("project names unavailable: %v", err)
		return nil
	}

	byID := make(map[string]string, len(byName))
	for name, id := range byName {
		byID[id] = name
	}
	return byID
}
