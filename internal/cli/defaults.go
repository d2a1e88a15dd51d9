package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcuo/clockify-cli/internal/config"
	"github.com/arcuo/clockify-cli/internal/formatter"
	"github.com/arcuo/clockify-cli/internal/version"
)

func newSetWorkspaceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set_workspace [name]",
		Short: "Set the default workspace",
		Long: `Set the default workspace. Without a name you pick one from the list.

Changing the workspace clears the default project, which belongs to the old one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.SetWorkspace(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Default workspace set to: %s, %s\n", res.Name, res.ID)
			return err
		},
	}
}

func newSetProjectCommand(a *app) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "set_project [name]",
		Short: "Set the default project of the default workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			res, err := svc.SetProject(cmd.Context(), workspace, firstArg(args))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Default project set to: %s, %s\n", res.Name, res.ID)
			return err
		},
	}
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace name (default is set with set_workspace)")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect the local configuration",
		Annotations: map[string]string{skipSetup: "true"},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Print the configuration with the API key masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				masked := a.cfg.Masked()
				if err := formatter.WriteJSON(cmd.OutOrStdout(), masked); err != nil {
					return err
				}
				if a.cfg.HasKeyOverride() {
					a.log.Info("API key taken from CLOCKIFY_API_KEY")
				}
				if a.cfg.BaseURL != config.DefaultBaseURL {
					a.log.Info("API endpoint " + a.cfg.BaseURL)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), a.cfg.File())
				return err
			},
		},
	)
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "clockify %s\n", version.GetVersion())
			if !check {
				return nil
			}

			latest, hasUpdate, err := version.CheckForUpdate(cmd.Context())
			switch {
			case err != nil:
				a.log.Warningf("update check failed: %v", err)
			case hasUpdate:
				fmt.Fprint(cmd.OutOrStdout(), version.GetUpdateMessage(cmd.Context()))
			case latest == "":
				a.log.Info("Development build, no update check")
			default:
				a.log.Success("You are running the latest version")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
