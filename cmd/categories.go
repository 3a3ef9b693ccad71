package cmd

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the question categories offered by the trivia API",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		cats, err := d.source.Categories(ctx)
		if err != nil {
			return fmt.Errorf("fetch categories: %w", err)
		}

		if len(cats) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		fmt.Printf("%5s  %s\n", "ID", "Name")
		fmt.Println(strings.Repeat("─", 50))
		for _, c := range cats {
			fmt.Printf("%5d  %s\n", c.ID, html.UnescapeString(c.Name))
		}

		fmt.Printf("\n%d categories\n", len(cats))
		return nil
	},
}
