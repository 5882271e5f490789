package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jabakyo/nextclass/pkg/core"
)

var (
	classUser  string
	classID    string
	classCode  string
	classTitle string
	classRoom  string
	classDays  string
	classStart string
	classEnd   string
	classJSON  bool
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Manage a user's class schedule",
}

var classesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a class to a user's schedule",
	Long: `Add a class with one weekly meeting pattern. The store rejects the class
if it overlaps an existing one; a verified schedule is demoted to unverified
in the same write.`,
	Run: func(cmd *cobra.Command, args []string) {
		entry, err := buildEntry()
		if err != nil {
			fatal("Invalid class", err)
		}

		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		if err := coord.AddClass(context.Background(), classUser, entry); err != nil {
			fatal("Failed to add class", err)
		}
		fmt.Printf("Added %s to %s\n", entry.ID, classUser)
	},
}

var classesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a class from a user's schedule",
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		if err := coord.RemoveClass(context.Background(), classUser, classID); err != nil {
			fatal("Failed to remove class", err)
		}
		fmt.Printf("Removed %s from %s\n", classID, classUser)
	},
}

var classesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's classes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		u, err := coord.GetUser(context.Background(), classUser)
		if err != nil {
			fatal("Failed to load user", err)
		}

		if classJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(u.Classes); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, e := range u.Classes {
			for _, m := range e.Meetings {
				days := make([]string, len(m.Days))
				for i, d := range m.Days {
					days[i] = string(d)
				}
				fmt.Printf("%s %s (%s) %s %s-%s\n", e.ID, e.Title, e.Code, strings.Join(days, ","), m.Start, m.End)
			}
		}
	},
}

// buildEntry assembles a ScheduleEntry from the class flags.
func buildEntry() (core.ScheduleEntry, error) {
	if classID == "" {
		return core.ScheduleEntry{}, fmt.Errorf("--id is required")
	}

	var days []core.Weekday
	for _, d := range strings.Split(classDays, ",") {
		d = strings.TrimSpace(strings.ToLower(d))
		if d == "" {
			continue
		}
		days = append(days, core.Weekday(d))
	}

	start, err := core.ParseClock(classStart)
	if err != nil {
		return core.ScheduleEntry{}, err
	}
	end, err := core.ParseClock(classEnd)
	if err != nil {
		return core.ScheduleEntry{}, err
	}

	entry := core.ScheduleEntry{
		ID:    classID,
		Code:  classCode,
		Title: classTitle,
		Room:  classRoom,
		Meetings: []core.MeetingInterval{
			{Days: days, Start: start, End: end},
		},
	}
	return entry, entry.Validate()
}

func init() {
	rootCmd.AddCommand(classesCmd)
	classesCmd.AddCommand(classesAddCmd, classesRemoveCmd, classesListCmd)

	classesCmd.PersistentFlags().StringVar(&classUser, "user", "", "User id (required)")
	classesCmd.MarkPersistentFlagRequired("user")

	classesAddCmd.Flags().StringVar(&classID, "id", "", "Class id (required)")
	classesAddCmd.Flags().StringVar(&classCode, "code", "", "Course code (e.g. CS241)")
	classesAddCmd.Flags().StringVar(&classTitle, "title", "", "Course title")
	classesAddCmd.Flags().StringVar(&classRoom, "room", "", "Room")
	classesAddCmd.Flags().StringVar(&classDays, "days", "", "Comma-separated weekdays (e.g. monday,wednesday)")
	classesAddCmd.Flags().StringVar(&classStart, "start", "", "Start time (HH:MM)")
	classesAddCmd.Flags().StringVar(&classEnd, "end", "", "End time (HH:MM)")

	classesRemoveCmd.Flags().StringVar(&classID, "id", "", "Class id (required)")
	classesRemoveCmd.MarkFlagRequired("id")

	classesListCmd.Flags().BoolVar(&classJSON, "json", false, "Output in JSON format")
}
