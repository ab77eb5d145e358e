package main

import (
	"fmt"

	"github.com/Veraticus/budgie/internal/cli"
	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/ledger"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, edit, and delete the categories entries are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(editCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var k model.CategoryKind
			if kind != "" {
				parsed, err := model.ParseCategoryKind(kind)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("invalid kind %q", kind), err)
				}
				k = parsed
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			categories := s.Categories(k)
			out := cmd.OutOrStdout()
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'budgie init' or 'budgie categories add' to create some."))
				return nil
			}

			money := a.money()
			w := cli.NewTable(out, "NAME", "KIND", "LIMIT", "DESCRIPTION")
			for _, c := range categories {
				limit := cli.SubtleStyle.Render("-")
				if l, ok := c.Limit(); ok {
					limit = money.Format(l)
				}
				desc := c.Description()
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name(), c.Kind(), limit, desc)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list categories of this kind (income, expense)")
	return cmd
}

func addCategoryCmd(a *app) *cobra.Command {
	var (
		kind        string
		limit       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Create a new category. Expense categories may carry a monthly spending limit;
an alert is raised the first time a month's spending in the category goes over it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseCategoryKind(kind)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("invalid kind %q", kind), err)
			}

			params := model.CategoryParams{Name: args[0], Kind: k, Description: description}
			if limit != "" {
				l, err := parseAmount(limit)
				if err != nil {
					return err
				}
				params.Limit = &l
			}

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}

			c, err := s.CreateCategory(cmd.Context(), params)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("could not create category %q", args[0]), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s category %q", c.Kind(), c.Name())))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.CategoryKindExpense), "Category kind (income, expense)")
	cmd.Flags().StringVar(&limit, "limit", "", "Monthly spending limit (expense categories only)")
	cmd.Flags().StringVar(&description, "description", "", "Category description")
	return cmd
}

func editCategoryCmd(a *app) *cobra.Command {
	var (
		kind        string
		name        string
		limit       string
		description string
		clearLimit  bool
	)

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit a category",
		Long:  `Rename a category or change its limit or description. Entries see the change immediately.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("limit") && !flags.Changed("description") && !clearLimit {
				return common.NewUserError("must specify --name, --limit, --clear-limit or --description", nil)
			}

			var edit ledger.CategoryEdit
			if flags.Changed("name") {
				edit.Name = &name
			}
			if flags.Changed("description") {
				edit.Description = &description
			}
			if flags.Changed("limit") {
				l, err := parseAmount(limit)
				if err != nil {
					return err
				}
				edit.Limit = &l
			}
			edit.ClearLimit = clearLimit

			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			c, err := resolveCategory(s, args[0], kind)
			if err != nil {
				return err
			}

			updated, err := s.EditCategory(cmd.Context(), c.ID(), edit)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("could not edit category %q", args[0]), err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Updated "+updated.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Kind of the category to edit when the name is ambiguous")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&limit, "limit", "", "New monthly limit")
	cmd.Flags().BoolVar(&clearLimit, "clear-limit", false, "Remove the monthly limit")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.MarkFlagsMutuallyExclusive("limit", "clear-limit")
	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	var (
		kind string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  `Delete a category. Categories that entries still use cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openSession(cmd)
			if err != nil {
				return err
			}
			c, err := resolveCategory(s, args[0], kind)
			if err != nil {
				return err
			}

			ok, err := a.confirm(cmd, yes, fmt.Sprintf("Delete %s category %q?", c.Kind(), c.Name()))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := s.DeleteCategory(cmd.Context(), c.ID()); err != nil {
				return common.NewUserError(fmt.Sprintf("could not delete category %q", c.Name()), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %q", c.Name())))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Kind of the category to delete when the name is ambiguous")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}
