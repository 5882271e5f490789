package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jabakyo/nextclass/pkg/core"
)

var (
	userID    string
	userName  string
	userEmail string
	usersJSON bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage portal users",
}

var usersRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		u := core.User{ID: userID, Name: userName, Email: userEmail}
		if _, err := coord.RegisterUser(context.Background(), u); err != nil {
			fatal("Failed to register user", err)
		}
		fmt.Printf("Registered %s\n", userID)
	},
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		users, err := coord.ListUsers(context.Background())
		if err != nil {
			fatal("Failed to list users", err)
		}

		if usersJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(users); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, u := range users {
			shared := ""
			if u.HasSharedSchedule {
				shared = " shared"
			}
			fmt.Printf("%s %s <%s> [%s]%s\n", u.ID, u.Name, u.Email, u.VerificationStatus, shared)
		}
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersRegisterCmd, usersListCmd)

	usersRegisterCmd.Flags().StringVar(&userID, "id", "", "User id (required)")
	usersRegisterCmd.MarkFlagRequired("id")
	usersRegisterCmd.Flags().StringVar(&userName, "name", "", "Display name")
	usersRegisterCmd.Flags().StringVar(&userEmail, "email", "", "Email address")

	usersListCmd.Flags().BoolVar(&usersJSON, "json", false, "Output in JSON format")
}
