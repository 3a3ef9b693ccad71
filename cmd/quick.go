package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/textquiz"
)

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Play a quiz in plain text on stdin/stdout (no TUI)",
	Long: `Play a quiz without the full-screen interface.

Questions are printed one by one; answer with the option number. Closing
input ends the quiz early and scores what was answered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		_, err = textquiz.Run(ctx, cfg, textquiz.Options{
			Source: d.source,
			Logger: d.log,
			In:     os.Stdin,
			Out:    os.Stdout,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	addQuizFlags(quickCmd)
}
