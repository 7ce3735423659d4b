package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func reminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"reminders"},
		Short:   "Manage bill reminders",
	}
	cmd.AddCommand(reminderAddCmd())
	cmd.AddCommand(reminderEditCmd())
	cmd.AddCommand(reminderRemoveCmd())
	cmd.AddCommand(reminderPayCmd())
	cmd.AddCommand(reminderListCmd())
	cmd.AddCommand(reminderHistoryCmd())
	return cmd
}

func registerReminderFlags(cmd *cobra.Command, in *state.ReminderInput) {
	cmd.Flags().StringVar(&in.Title, "title", "", "what the reminder is for")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional note")
	cmd.Flags().StringVar(&in.Day, "day", "", "day of month, e.g. 5")
	cmd.Flags().StringVar(&in.Month, "month", "", "short month name, e.g. Apr")
	cmd.Flags().StringVar(&in.Year, "year", "", "optional year")
	cmd.Flags().StringVar(&in.Color, "color", state.DefaultReminderColor, "label color")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "amount due")
}

func reminderAddCmd() *cobra.Command {
	var in state.ReminderInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			r, err := s.store.AddReminder(in)
			if err != nil {
				return err
			}
			fmt.Printf("Reminder added (id %d)\n", r.ID)
			return nil
		},
	}
	registerReminderFlags(cmd, &in)
	return cmd
}

func reminderEditCmd() *cobra.Command {
	var in state.ReminderInput
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a reminder",
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

			var current *state.Reminder
			for _, r := range s.store.Reminders() {
				if r.ID == id {
					current = &r
					break
				}
			}
			if current == nil {
				return state.ErrReminderNotFound
			}

			if _, err := s.store.UpdateReminder(id, mergeReminder(cmd, *current, in)); err != nil {
				return err
			}
			fmt.Println("Reminder updated")
			return nil
		},
	}
	registerReminderFlags(cmd, &in)
	return cmd
}

// mergeReminder starts from the stored reminder and applies the flags the
// user set.
func mergeReminder(cmd *cobra.Command, r state.Reminder, in state.ReminderInput) state.ReminderInput {
	parts := strings.Fields(r.Date)
	out := state.ReminderInput{
		Title:       r.Title,
		Description: r.Description,
		Color:       r.Color,
	}
	if len(parts) > 0 {
		out.Day = parts[0]
	}
	if len(parts) > 1 {
		out.Month = parts[1]
	}
	if len(parts) > 2 {
		out.Year = parts[2]
	}
	if r.Amount != 0 {
		out.Amount = strconv.FormatFloat(r.Amount, 'f', -1, 64)
	}

	changed := cmd.Flags().Changed
	if changed("title") {
		out.Title = in.Title
	}
	if changed("description") {
		out.Description = in.Description
	}
	if changed("day") {
		out.Day = in.Day
	}
	if changed("month") {
		out.Month = in.Month
	}
	if changed("year") {
		out.Year = in.Year
	}
	if changed("color") {
		out.Color = in.Color
	}
	if changed("amount") {
		out.Amount = in.Amount
	}
	return out
}

func reminderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a reminder",
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

			return s.store.DeleteReminder(id)
		},
	}
}

func reminderPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark a reminder as paid and move it to history",
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

			paid, err := s.store.MarkPaid(id)
			if err != nil {
				return err
			}
			fmt.Printf("Reminder %q marked as paid and moved to history.\n", paid.Title)
			return nil
		},
	}
}

func reminderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			now := s.store.Now()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tDUE\tTITLE\tAMOUNT\t")
			for _, r := range s.store.Reminders() {
				soon := ""
				if state.IsDateApproaching(r.Date, now) {
					soon = "due soon"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Title, state.FormatAmount(r.Amount), soon)
			}
			fmt.Fprintf(w, "\t\t%d of %d\t\t\n", len(s.store.Reminders()), state.MaxReminders)
			return nil
		},
	}
}

func reminderHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List paid reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "PAID ON\tDUE\tTITLE\tAMOUNT")
			for _, p := range s.store.PaidHistory() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PaidOn, p.Date, p.Name, state.FormatAmount(p.Amount))
			}
			return nil
		},
	}
}
