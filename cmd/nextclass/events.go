package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jabakyo/nextclass/pkg/core"
)

var (
	eventTitle       string
	eventDescription string
	eventLocation    string
	eventHost        string
	eventStart       string
	eventEnd         string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage campus events",
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a campus event",
	Run: func(cmd *cobra.Command, args []string) {
		start, err := time.Parse(time.RFC3339, eventStart)
		if err != nil {
			fatal("Invalid --start", err)
		}
		end, err := time.Parse(time.RFC3339, eventEnd)
		if err != nil {
			fatal("Invalid --end", err)
		}

		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		ev := core.CampusEvent{
			Title:       eventTitle,
			Description: eventDescription,
			Location:    eventLocation,
			HostID:      eventHost,
			StartsAt:    start,
			EndsAt:      end,
		}
		created, err := coord.CreateEvent(context.Background(), ev)
		if err != nil {
			fatal("Failed to create event", err)
		}
		fmt.Printf("Created event %s\n", created.ID)
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campus events",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		events, err := coord.ListEvents(context.Background())
		if err != nil {
			fatal("Failed to list events", err)
		}

		for _, ev := range events {
			fmt.Printf("%s %s @ %s (%s - %s)\n",
				ev.ID, ev.Title, ev.Location,
				ev.StartsAt.Format(time.RFC3339), ev.EndsAt.Format(time.RFC3339))
		}
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsCreateCmd, eventsListCmd)

	eventsCreateCmd.Flags().StringVar(&eventTitle, "title", "", "Event title (required)")
	eventsCreateCmd.MarkFlagRequired("title")
	eventsCreateCmd.Flags().StringVar(&eventDescription, "description", "", "Event description")
	eventsCreateCmd.Flags().StringVar(&eventLocation, "location", "", "Location")
	eventsCreateCmd.Flags().StringVar(&eventHost, "host", "", "Host user id")
	eventsCreateCmd.Flags().StringVar(&eventStart, "start", "", "Start time (RFC 3339, required)")
	eventsCreateCmd.MarkFlagRequired("start")
	eventsCreateCmd.Flags().StringVar(&eventEnd, "end", "", "End time (RFC 3339, required)")
	eventsCreateCmd.MarkFlagRequired("end")
}
