package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Check whether a class would conflict with a user's schedule",
	Long: `Preview a schedule conflict without writing anything. Exits with status 1
when the candidate class overlaps an existing one.`,
	Run: func(cmd *cobra.Command, args []string) {
		entry, err := buildEntry()
		if err != nil {
			fatal("Invalid class", err)
		}

		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		conflict, err := coord.WouldConflict(context.Background(), classUser, entry)
		if err != nil {
			fatal("Failed to check conflicts", err)
		}
		if conflict {
			fatal("Schedule conflict", fmt.Errorf("%s overlaps an existing class", entry.ID))
		}
		fmt.Printf("%s fits %s's schedule\n", entry.ID, classUser)
	},
}

func init() {
	rootCmd.AddCommand(conflictsCmd)

	conflictsCmd.Flags().StringVar(&classUser, "user", "", "User id (required)")
	conflictsCmd.MarkFlagRequired("user")
	conflictsCmd.Flags().StringVar(&classID, "id", "", "Class id (required)")
	conflictsCmd.MarkFlagRequired("id")
	conflictsCmd.Flags().StringVar(&classCode, "code", "", "Course code")
	conflictsCmd.Flags().StringVar(&classTitle, "title", "", "Course title")
	conflictsCmd.Flags().StringVar(&classRoom, "room", "", "Room")
	conflictsCmd.Flags().StringVar(&classDays, "days", "", "Comma-separated weekdays")
	conflictsCmd.Flags().StringVar(&classStart, "start", "", "Start time (HH:MM)")
	conflictsCmd.Flags().StringVar(&classEnd, "end", "", "End time (HH:MM)")
}
