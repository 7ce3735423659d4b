package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Manage local transaction categories",
	}

	var color string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			c, err := s.store.AddCustomCategory(args[0], color)
			if err != nil {
				return err
			}
			fmt.Printf("New category %q has been added\n", c.Name)
			return nil
		},
	}
	add.Flags().StringVar(&color, "color", state.DefaultCategoryColor, "chart color")

	rm := &cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			removed, err := s.store.RemoveCustomCategory(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("category %q does not exist in custom categories", args[0])
			}
			fmt.Printf("Category %q has been removed\n", args[0])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in and custom categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "NAME\tKIND\tCOLOR")
			for _, name := range state.PredefinedCategories() {
				fmt.Fprintf(w, "%s\tbuilt-in\t%s\n", name, s.store.CategoryColor(name))
			}
			for _, c := range s.store.CustomCategories() {
				fmt.Fprintf(w, "%s\tcustom\t%s\n", c.Name, c.Color)
			}
			return nil
		},
	}

	cmd.AddCommand(add, rm, list)
	return cmd
}
