package main

import (
	"fmt"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/Veraticus/budgie/internal/tui"
	"github.com/spf13/cobra"
)

func alertsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Review budget alerts",
	}
	cmd.AddCommand(listAlertsCmd(a))
	cmd.AddCommand(readAlertCmd(a))
	cmd.AddCommand(reviewAlertsCmd(a))
	return cmd
}

func listAlertsCmd(a *app) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, most severe first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			alerts := s.Alerts(unread)
			out := cmd.OutOrStdout()
			if len(alerts) == 0 {
				fmt.Fprintln(out, cli.FormatSuccess("No alerts."))
				return nil
			}

			w := cli.NewTable(out, "ID", "CREATED", "ALERT")
			for _, alert := range alerts {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					shortID(alert.ID()),
					alert.CreatedAt().Local().Format("2006-01-02 15:04"),
					cli.FormatAlert(alert))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&unread, "unread", "u", false, "Only list unread alerts")
	return cmd
}

func readAlertCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark alerts as read",
		Long:  `Mark one alert (by identifier or unique prefix) or, with --all, every alert as read.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if all {
				n, err := s.MarkAllAlertsRead(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to mark alerts read: %w", err)
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Marked %d alert(s) read", n)))
				return nil
			}

			alert, err := resolveID("alert", args[0], s.Alerts(false), (*model.Alert).ID)
			if err != nil {
				return err
			}
			if err := s.MarkAlertRead(cmd.Context(), alert.ID()); err != nil {
				return fmt.Errorf("failed to mark alert read: %w", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Marked read: "+alert.Message()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every alert read")
	return cmd
}

func reviewAlertsCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review alerts interactively",
		Long:  `Open an interactive table of alerts. Press r to mark the selected alert read, A to mark all, q to quit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			alerts := s.Alerts(!all)
			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("No alerts to review."))
				return nil
			}

			marked, err := tui.RunAlertReview(cmd.Context(), s, alerts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Marked %d alert(s) read", marked)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include alerts already read")
	return cmd
}
