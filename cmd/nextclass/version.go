package main

import (
	"fmt"
	"strings"

	"github.com/Jabakyo/nextclass"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nextclass",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nextclass version %s\n", strings.TrimSpace(nextclass.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
