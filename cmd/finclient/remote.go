package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"finclusion/internal/client/api"
	"finclusion/internal/domain/category"
	"finclusion/internal/domain/transaction"
)

func remoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with categories and transactions stored on the server",
	}
	cmd.AddCommand(remoteCategoryCmd())
	cmd.AddCommand(remoteTxCmd())
	return cmd
}

// withClient opens a session without reconciling and hands its API client to fn.
func withClient(cmd *cobra.Command, fn func(c *api.Client) error) error {
	s, err := openSession(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.client)
}

func checkResponse[T any](resp *api.Response[T]) (T, error) {
	if !resp.Success {
		var zero T
		return zero, fmt.Errorf("request failed: %s", resp.Error)
	}
	return resp.Data, nil
}

func remoteCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "Server categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.ListCategories(cmd.Context())
				if err != nil {
					return err
				}
				cats, err := checkResponse(resp)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "ID\tNAME\tTYPE\tCOLOR\tBUDGET")
				for _, cat := range cats {
					budget := "-"
					if cat.Budget != nil {
						budget = fmt.Sprintf("%.2f", *cat.Budget)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", cat.ID, cat.Name, cat.Type, cat.Color, budget)
				}
				return nil
			})
		},
	}

	var in api.CategoryInput
	var typ string
	var budget float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			in.Type = category.Type(typ)
			if cmd.Flags().Changed("budget") {
				in.Budget = &budget
			}
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.CreateCategory(cmd.Context(), in)
				if err != nil {
					return err
				}
				cat, err := checkResponse(resp)
				if err != nil {
					return err
				}
				fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&typ, "type", string(category.TypeExpense), "income or expense")
	add.Flags().StringVar(&in.Color, "color", "", "color")
	add.Flags().StringVar(&in.Icon, "icon", "", "icon name")
	add.Flags().Float64Var(&budget, "budget", 0, "monthly budget")

	var newName string
	var newBudget float64
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename a category or change its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.CategoryUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &newName
			}
			if cmd.Flags().Changed("budget") {
				update.Budget = &newBudget
			}
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.UpdateCategory(cmd.Context(), args[0], update)
				if err != nil {
					return err
				}
				_, err = checkResponse(resp)
				return err
			})
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().Float64Var(&newBudget, "budget", 0, "new monthly budget")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a category and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.DeleteCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				msg, err := checkResponse(resp)
				if err != nil {
					return err
				}
				fmt.Println(msg.Message)
				return nil
			})
		},
	}

	from, to := monthBounds(time.Now())
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Spending per category for a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.CategoryStats(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				rows, err := checkResponse(resp)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "CATEGORY\tTYPE\tSPENT\tCOUNT\tOF BUDGET")
				for _, st := range rows {
					pct := "-"
					if st.PercentageOfBudget != nil {
						pct = fmt.Sprintf("%.0f%%", *st.PercentageOfBudget)
					}
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n", st.Category, st.Type, st.Spent, st.TransactionCount, pct)
				}
				return nil
			})
		},
	}
	stats.Flags().StringVar(&from, "from", from, "start date (YYYY-MM-DD)")
	stats.Flags().StringVar(&to, "to", to, "end date, inclusive (YYYY-MM-DD)")

	cmd.AddCommand(list, add, edit, rm, stats)
	return cmd
}

func remoteTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Server transactions",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.ListTransactions(cmd.Context())
				if err != nil {
					return err
				}
				txs, err := checkResponse(resp)
				if err != nil {
					return err
				}
				printTransactions(txs)
				return nil
			})
		},
	}

	var in api.TransactionInput
	var typ string
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Type = transaction.Type(typ)
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.CreateTransaction(cmd.Context(), in)
				if err != nil {
					return err
				}
				tx, err := checkResponse(resp)
				if err != nil {
					return err
				}
				fmt.Printf("Created transaction %s\n", tx.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&typ, "type", string(transaction.TypeExpense), "income or expense")
	add.Flags().Float64Var(&in.Amount, "amount", 0, "amount")
	add.Flags().StringVar(&in.CategoryID, "category-id", "", "category id")
	add.Flags().StringVar(&in.Description, "description", "", "description")
	add.Flags().StringVar(&in.Date, "date", "", "date (YYYY-MM-DD, default today)")

	var amount float64
	var description, categoryID string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.TransactionUpdate
			changed := cmd.Flags().Changed
			if changed("amount") {
				update.Amount = &amount
			}
			if changed("description") {
				update.Description = &description
			}
			if changed("category-id") {
				update.CategoryID = &categoryID
			}
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.UpdateTransaction(cmd.Context(), args[0], update)
				if err != nil {
					return err
				}
				_, err = checkResponse(resp)
				return err
			})
		},
	}
	edit.Flags().Float64Var(&amount, "amount", 0, "new amount")
	edit.Flags().StringVar(&description, "description", "", "new description")
	edit.Flags().StringVar(&categoryID, "category-id", "", "new category id")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.DeleteTransaction(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = checkResponse(resp)
				return err
			})
		},
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Transactions and totals for one month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.MonthlyTransactions(cmd.Context(), year, month)
				if err != nil {
					return err
				}
				report, err := checkResponse(resp)
				if err != nil {
					return err
				}
				printTransactions(report.Transactions)
				fmt.Printf("\nIncome %.2f   Expense %.2f   Balance %.2f\n", report.Summary.Income, report.Summary.Expense, report.Summary.Balance)
				return nil
			})
		},
	}
	monthly.Flags().IntVar(&year, "year", year, "year")
	monthly.Flags().IntVar(&month, "month", month, "month (1-12)")

	from, to := monthBounds(now)
	byCategory := &cobra.Command{
		Use:   "by-category",
		Short: "Totals per category for a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, func(c *api.Client) error {
				resp, err := c.TransactionsByCategory(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				groups, err := checkResponse(resp)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "CATEGORY\tTYPE\tTOTAL\tCOUNT")
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\n", g.Name, g.Type, g.Total, g.Count)
				}
				return nil
			})
		},
	}
	byCategory.Flags().StringVar(&from, "from", from, "start date (YYYY-MM-DD)")
	byCategory.Flags().StringVar(&to, "to", to, "end date, inclusive (YYYY-MM-DD)")

	cmd.AddCommand(list, add, edit, rm, monthly, byCategory)
	return cmd
}

func printTransactions(txs []*transaction.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, t := range txs {
		name := t.CategoryID
		if t.Category != nil {
			name = t.Category.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date.Format(time.DateOnly), name,
			signedAmount(t.Amount, t.Type == transaction.TypeIncome), t.Description)
	}
}

// monthBounds returns the first and last day of t's month.
func monthBounds(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(time.DateOnly), last.Format(time.DateOnly)
}
