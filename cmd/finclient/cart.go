package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Browse courses and manage your cart",
	}

	courses := &cobra.Command{
		Use:   "courses",
		Short: "List available courses",
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tCOURSE\tPRICE")
			for _, c := range state.Courses {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Title, state.FormatAmount(c.Price))
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <course-id>",
		Short: "Add a course to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			course, ok := state.CourseByID(id)
			if !ok {
				return fmt.Errorf("no course with id %d", id)
			}

			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.store.AddToCart(course)
			if err != nil {
				return err
			}
			if !added {
				fmt.Println("Already in cart")
				return nil
			}
			fmt.Printf("Added %q to cart\n", course.Title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <course-id>",
		Short: "Remove a course from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			return s.store.RemoveFromCart(id)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the cart and its total",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tCOURSE\tPRICE")
			for _, item := range s.store.Cart() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", item.ID, item.Title, state.FormatAmount(item.Price))
			}
			fmt.Fprintf(w, "\tTotal\t%s\n", state.FormatAmount(s.store.CartTotal()))
			return nil
		},
	}

	cmd.AddCommand(courses, add, rm, list)
	return cmd
}
