package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func spendingCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Show monthly spending against the budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			budget := s.store.MonthlyBudget()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "MONTH\tSPENT\t")
			for _, m := range state.MonthlySpending(s.store.Transactions(), s.store.Now(), all) {
				flag := ""
				if state.HasExceededBudget(m.Total, budget) {
					flag = "over budget"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Month, state.FormatAmount(m.Total), flag)
			}

			fmt.Fprintln(w, "\nCATEGORY\tSPENT\tCOLOR")
			for _, ct := range state.CategoryTotals(s.store.Transactions()) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ct.Category, state.FormatAmount(ct.Total), s.store.CategoryColor(ct.Category))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show the last seven months instead of three")
	return cmd
}
