package main

import (
	"fmt"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/storage"
	"github.com/spf13/cobra"
)

func checkpointCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage data checkpoints",
		Long: `Create, list, restore, and delete checkpoints of the data directory.

Checkpoints save the current state of your data before risky changes so you can
go back to it if needed. Imports take one automatically.`,
		Example: `  # Create a checkpoint before cleaning up categories
  budgie checkpoint create --tag before-cleanup

  # List all checkpoints
  budgie checkpoint list

  # Restore from a checkpoint
  budgie checkpoint restore before-cleanup`,
	}

	cmd.AddCommand(createCheckpointCmd(a))
	cmd.AddCommand(listCheckpointsCmd(a))
	cmd.AddCommand(restoreCheckpointCmd(a))
	cmd.AddCommand(deleteCheckpointCmd(a))

	return cmd
}

func (a *app) checkpoints() (*storage.CheckpointManager, error) {
	manager, err := storage.NewCheckpointManager(a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
	}
	return manager, nil
}

func createCheckpointCmd(a *app) *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.checkpoints()
			if err != nil {
				return err
			}

			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.Size))
			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Checkpoint tag (generated from the time if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the checkpoint")
	return cmd
}

func listCheckpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}

			w := cli.NewTable(out, "NAME", "CREATED", "SIZE", "ENTRIES", "CATEGORIES", "ALERTS", "TYPE")
			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					cli.InfoStyle.Render(cp.ID),
					formatRelativeTime(cp.CreatedAt),
					formatFileSize(cp.Size),
					cp.Entries,
					cp.Categories,
					cp.Alerts,
					cli.SubtitleStyle.Render(typeLabel))
			}
			return w.Flush()
		},
	}
}

func restoreCheckpointCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <checkpoint>",
		Short: "Restore the data directory from a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Info(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "%s This will replace your current data with checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(info.ID))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}
			}
			ok, err := a.confirm(cmd, yes, "Continue?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("Restore cancelled."))
				return nil
			}

			if err := manager.Restore(cmd.Context(), info.ID); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}
			fmt.Fprintf(out, "%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

func deleteCheckpointCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <checkpoint>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Info(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			ok, err := a.confirm(cmd, yes, fmt.Sprintf("Permanently delete checkpoint %s (%s)?", info.ID, formatFileSize(info.Size)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := manager.Delete(cmd.Context(), info.ID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
