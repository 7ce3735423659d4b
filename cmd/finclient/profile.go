package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View or update your profile",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.store.Profile()
			fmt.Printf("Name:          %s\n", p.Name)
			fmt.Printf("Email:         %s\n", p.Email)
			fmt.Printf("Date of birth: %s\n", p.DateOfBirth)
			fmt.Printf("PAN:           %s\n", p.PanID)
			if p.ProfileImage != nil {
				fmt.Printf("Image:         %s\n", *p.ProfileImage)
			}
			if s.store.CompletionOpen() {
				fmt.Println("\nYour profile is incomplete.")
			}
			return nil
		},
	}

	var name, email, dob, pan string
	save := &cobra.Command{
		Use:   "save",
		Short: "Save profile details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer s.Close()

			p := s.store.Profile()
			changed := cmd.Flags().Changed
			if changed("name") {
				p.Name = name
			}
			if changed("email") {
				p.Email = email
			}
			if changed("dob") {
				p.DateOfBirth = dob
			}
			if changed("pan") {
				p.PanID = pan
			}

			res, err := s.store.SaveProfile(cmd.Context(), p)
			if err != nil {
				return err
			}
			if res.Synced {
				fmt.Println("Profile updated successfully!")
			} else {
				fmt.Printf("Profile saved on this device; the server did not accept it: %v\n", res.RemoteErr)
			}
			return nil
		},
	}
	save.Flags().StringVar(&name, "name", "", "full name")
	save.Flags().StringVar(&email, "email", "", "email address")
	save.Flags().StringVar(&dob, "dob", "", "date of birth (YYYY-MM-DD)")
	save.Flags().StringVar(&pan, "pan", "", "PAN, e.g. ABCDE1234F")

	upload := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			defer f.Close()

			s, err := openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer s.Close()

			resp, err := s.client.UploadProfileImage(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("upload failed: %s", resp.Error)
			}

			// Pull the updated profile so the local copy carries the new image.
			if err := s.store.ReconcileProfile(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Profile image uploaded: %s\n", resp.Data.ImageURL)
			return nil
		},
	}

	cmd.AddCommand(show, save, upload)
	return cmd
}
