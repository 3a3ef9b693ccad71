package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show or clear the log file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loggingConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.Path
		if path == "" {
			if path, err = logging.DefaultPath(); err != nil {
				return err
			}
		}

		truncate, _ := cmd.Flags().GetBool("clear")
		if !truncate {
			fmt.Println(path)
			return nil
		}

		if err := os.Truncate(path, 0); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Println("No log file yet.")
				return nil
			}
			return fmt.Errorf("clear log: %w", err)
		}
		fmt.Println("Cleared", path)
		return nil
	},
}

func init() {
	logsCmd.Flags().Bool("clear", false, "Truncate the log file")
}
