package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jabakyo/nextclass/pkg/core"
)

var (
	submitUser       string
	submitScreenshot string
	reviewReason     string
	reviewStatus     string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a user's schedule for verification",
	Long: `Submit the user's current class list for review. A snapshot of the
schedule is recorded on the verification request, so later edits to the
live schedule do not alter what the reviewer sees.`,
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		req, err := coord.SubmitForReview(context.Background(), submitUser, submitScreenshot)
		if err != nil {
			fatal("Failed to submit for review", err)
		}
		fmt.Printf("Submitted request %s for %s\n", req.ID, submitUser)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review verification requests",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List verification requests",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		reqs, err := coord.ListRequests(context.Background(), core.RequestStatus(reviewStatus))
		if err != nil {
			fatal("Failed to list requests", err)
		}

		for _, r := range reqs {
			fmt.Printf("%s user=%s status=%s submitted=%s classes=%d\n",
				r.ID, r.UserID, r.Status, r.SubmittedAt.Format("2006-01-02 15:04"), len(r.SubmittedClasses))
		}
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve a pending verification request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		if err := coord.Approve(context.Background(), args[0]); err != nil {
			fatal("Failed to approve request", err)
		}
		fmt.Printf("Approved %s\n", args[0])
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject a pending verification request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		if err := coord.Reject(context.Background(), args[0], reviewReason); err != nil {
			fatal("Failed to reject request", err)
		}
		fmt.Printf("Rejected %s\n", args[0])
	},
}

var shareCmd = &cobra.Command{
	Use:   "share <user-id>",
	Short: "Enable schedule sharing for a verified user",
	Long: `Turn on schedule sharing. Sharing requires a verified schedule and,
once enabled, stays on until verification lapses.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		coord, err := openCoordinator()
		if err != nil {
			fatal("Failed to initialize portal", err)
		}

		if err := coord.SetSharing(context.Background(), args[0], true); err != nil {
			fatal("Failed to enable sharing", err)
		}
		fmt.Printf("Sharing enabled for %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(submitCmd, reviewCmd, shareCmd)
	reviewCmd.AddCommand(reviewListCmd, reviewApproveCmd, reviewRejectCmd)

	submitCmd.Flags().StringVar(&submitUser, "user", "", "User id (required)")
	submitCmd.MarkFlagRequired("user")
	submitCmd.Flags().StringVar(&submitScreenshot, "screenshot", "", "Reference to the submitted screenshot")

	reviewListCmd.Flags().StringVar(&reviewStatus, "status", "", "Filter by status (pending, approved, rejected)")
	reviewRejectCmd.Flags().StringVar(&reviewReason, "reason", "", "Reason shown to the user")
}
