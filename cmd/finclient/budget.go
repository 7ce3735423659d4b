package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or change the monthly budget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			budget := s.store.MonthlyBudget()
			spent := state.TotalSpent(s.store.Transactions())
			fmt.Printf("Monthly budget: %s\n", s.store.BudgetInput())
			if state.HasExceededBudget(spent, budget) {
				pct, _ := state.ExceededPercentage(spent, budget)
				fmt.Printf("Spent %s, %d%% over budget\n", state.FormatAmount(spent), pct)
			} else {
				fmt.Printf("Spent %s\n", state.FormatAmount(spent))
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			s.store.SetBudgetInput(args[0])
			if err := s.store.ConfirmBudgetInput(); err != nil {
				return err
			}
			fmt.Printf("Monthly budget set to %s\n", s.store.BudgetInput())
			return nil
		},
	})
	return cmd
}
