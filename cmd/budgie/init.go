package main

import (
	"fmt"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/spf13/cobra"
)

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the data directory and default categories",
		Long: `Create the data files in the data directory and, when no categories exist yet,
seed the default income and expense categories from the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			created, err := s.BootstrapDefaults(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to create default categories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Data directory ready: "+a.cfg.DataDir))
			if created > 0 {
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Created %d default categories", created)))
			} else {
				fmt.Fprintln(out, cli.FormatInfo("Categories already exist, nothing to seed"))
			}
			return nil
		},
	}
}
