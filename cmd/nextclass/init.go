package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const defaultConfig = `# nextclass portal configuration
data_dir: .nextclass
lock_timeout: 10s
read_retries: 3
log_level: info
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a nextclass data directory",
	Long: `Initialize a nextclass portal in the current directory: creates the
.nextclass data directory and a nextclass.yaml config with defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		if err := os.MkdirAll(filepath.Join(cwd, ".nextclass"), 0755); err != nil {
			fatal("Failed to create data directory", err)
		}

		cfgPath := filepath.Join(cwd, "nextclass.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			fmt.Println("nextclass.yaml already exists, leaving it untouched")
		} else {
			if err := os.WriteFile(cfgPath, []byte(defaultConfig), 0644); err != nil {
				fatal("Failed to write config", err)
			}
		}

		fmt.Println("Initialized nextclass portal in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
