package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"finclusion/internal/client/state"
	"finclusion/internal/shared/auth"
)

func registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start with a fresh local state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateRegistration(name, email, password); err != nil {
				return err
			}

			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.client.Register(cmd.Context(), name, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("registration failed: %s", resp.Error)
			}

			if err := s.store.SignedIn(resp.Data.Token, resp.Data.User); err != nil {
				return err
			}
			if err := s.store.MarkRegistered(name); err != nil {
				return err
			}

			fmt.Printf("Welcome, %s! Run 'finclient profile save' to complete your profile.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", fmt.Sprintf("password (at least %d characters)", auth.MinPasswordLength))
	return cmd
}

// validateRegistration applies the server's sign-up rules before any request is made.
func validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return errors.New("please fill all fields")
	}
	return auth.CheckPasswordPolicy(password)
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in; local data from a previous account is dropped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("login failed: %s", resp.Error)
			}

			if err := s.store.SignedIn(resp.Data.Token, resp.Data.User); err != nil {
				return err
			}

			fmt.Printf("Signed in as %s\n", resp.Data.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear all local data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.client.Logout(cmd.Context()); err != nil {
				slog.Warn("server logout failed, clearing local data anyway", "error", err)
			}
			if err := s.store.Logout(); err != nil {
				return err
			}

			fmt.Println("Logged out")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your profile, budget and spending at a glance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			st := s.store
			p := st.Profile()
			if p.Name != "" {
				fmt.Printf("Hello, %s\n", p.Name)
			} else {
				fmt.Println("Not signed in")
			}
			if st.CompletionOpen() {
				fmt.Println("Your profile is incomplete. Run 'finclient profile save'.")
			}

			txs := st.Transactions()
			spent := state.TotalSpent(txs)
			budget := st.MonthlyBudget()
			fmt.Printf("Transactions: %d   Total: %s   Budget: %s\n", len(txs), state.FormatAmount(spent), state.FormatAmount(budget))
			if pct, ok := state.ExceededPercentage(spent, budget); ok && pct > 0 {
				fmt.Printf("Over budget by %d%%\n", pct)
			}

			now := st.Now()
			due := 0
			for _, r := range st.Reminders() {
				if state.IsDateApproaching(r.Date, now) {
					due++
				}
			}
			fmt.Printf("Reminders: %d (%d due soon)   Paid: %d\n", len(st.Reminders()), due, len(st.PaidHistory()))
			fmt.Printf("Cart: %d item(s), %s\n", len(st.Cart()), state.FormatAmount(st.CartTotal()))
			return nil
		},
	}
}
