package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "triviaz",
	Short: "Terminal trivia quiz",
	Long:  "Triviaz: pick a difficulty and category, answer multiple-choice questions from the Open Trivia DB, and see how you score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("api-base", "", "Trivia API base URL (overrides TRIVIAZ_API_BASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides TRIVIAZ_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path (overrides TRIVIAZ_LOG_FILE)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
