package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage local transactions",
	}
	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txRemoveCmd())
	cmd.AddCommand(txListCmd())
	return cmd
}

type txFlags struct {
	name, amount, category, description string
	income                              bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "who or what the transaction was with")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount")
	cmd.Flags().StringVar(&f.category, "category", "", "category, e.g. food or online")
	cmd.Flags().StringVar(&f.description, "description", "", "optional note")
	cmd.Flags().BoolVar(&f.income, "income", false, "money received rather than spent")
}

// apply overrides the form fields the user set on the command line.
func (f *txFlags) apply(cmd *cobra.Command, fields state.TransactionFields) state.TransactionFields {
	changed := cmd.Flags().Changed
	if changed("name") {
		fields.Name = f.name
	}
	if changed("amount") {
		fields.Amount = f.amount
	}
	if changed("category") {
		fields.Category = f.category
	}
	if changed("description") {
		fields.Description = f.description
	}
	if changed("income") {
		fields.Type = "expense"
		if f.income {
			fields.Type = "income"
		}
	}
	return fields
}

func txAddCmd() *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			s.store.OpenCreate()
			return submitTx(cmd, s.store, &flags, "added")
		},
	}
	flags.register(cmd)
	return cmd
}

func txEditCmd() *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction",
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

			if err := s.store.OpenEdit(id); err != nil {
				return err
			}
			return submitTx(cmd, s.store, &flags, "updated")
		},
	}
	flags.register(cmd)
	return cmd
}

func submitTx(cmd *cobra.Command, store *state.Store, flags *txFlags, verb string) error {
	if err := store.UpdateForm(flags.apply(cmd, store.Form().Fields)); err != nil {
		return err
	}
	t, err := store.SubmitForm()
	if err != nil {
		return err
	}
	fmt.Printf("Transaction %s successfully (id %d)\n", verb, t.ID)
	return nil
}

func txRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
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

			return s.store.DeleteTransaction(id)
		},
	}
}

func txListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tDATE\tNAME\tCATEGORY\tAMOUNT\tDESCRIPTION")
			for _, t := range s.store.Transactions() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.DisplayDate, t.Name, t.Category, signedAmount(t.Amount, t.IsIncoming), t.Description)
			}
			return nil
		},
	}
}
