package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcuo/clockify-cli/internal/formatter"
)

// outputFormat resolves -o, with --verbose forcing raw JSON.
func (a *app) outputFormat(flag string) (formatter.Format, error) {
	f, err := formatter.ParseFormat(flag)
	if err != nil {
		return "", err
	}
	if a.verbose {
		return formatter.FormatJSON, nil
	}
	return f, nil
}

func newEntriesCommand(a *app) *cobra.Command {
	var (
		workspace string
		info      bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Show previous 10 time entries",
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
			entries, err := svc.Entries(cmd.Context(), workspace)
			if err != nil {
				return err
			}

			var projects map[string]string
			if len(entries) > 0 && f != formatter.FormatJSON && f != formatter.FormatYAML {
				projects = a.projectNames(cmd.Context(), svc, entries[0].WorkspaceID)
			}
			return a.renderer(cmd, f).Entries(entries, info, projects)
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	cmd.Flags().BoolVarP(&info, "info", "i", false, "Include description, end and id")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml|markdown)")
	return cmd
}

func newRemoveEntryCommand(a *app) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "remove_entry <id>",
		Short: "Remove a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			return a.mutation(cmd, "Removing entry", func(ctx context.Context) (string, error) {
				status, err := svc.RemoveEntry(ctx, workspace, args[0])
				if err != nil {
					return "", err
				}
				a.log.Debugf("delete answered %d", status)
				return fmt.Sprintf("Removed entry %s", args[0]), nil
			})
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	return cmd
}

func newUserCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "user",
		Short: "Get user information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			user, err := svc.API.GetUser(cmd.Context())
			if err != nil {
				return err
			}
			if a.verbose {
				return a.echo(cmd.OutOrStdout(), user)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", user.ID, user.Name)
			return err
		},
	}
}

func newProjectsCommand(a *app) *cobra.Command {
	var (
		workspace string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Show all projects",
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
			projects, err := svc.Projects(cmd.Context(), workspace)
			if err != nil {
				return err
			}

			items := make([]formatter.NamedItem, 0, len(projects))
			for _, p := range projects {
				items = append(items, formatter.NamedItem{ID: p.ID, Name: p.Name})
			}
			return a.renderer(cmd, f).Names("Projects", items)
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml|markdown)")
	return cmd
}

func newWorkspacesCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Show all workspaces",
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
			workspaces, err := svc.API.ListWorkspaces(cmd.Context())
			if err != nil {
				return err
			}

			items := make([]formatter.NamedItem, 0, len(workspaces))
			for _, w := range workspaces {
				items = append(items, formatter.NamedItem{ID: w.ID, Name: w.Name})
			}
			return a.renderer(cmd, f).Names("Workspaces", items)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml|markdown)")
	return cmd
}
