package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/quiz"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz straight away with the given settings",
	Example: `  triviaz play --amount 5 --difficulty hard
  triviaz play --category 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configFromFlags(cmd)
		if err != nil {
			return err
		}
		return runApp(cmd, &cfg)
	},
}

func init() {
	addQuizFlags(playCmd)
}

func addQuizFlags(c *cobra.Command) {
	c.Flags().String("amount", fmt.Sprint(quiz.DefaultAmount), "Number of questions")
	c.Flags().String("difficulty", string(quiz.DifficultyEasy), "Difficulty: easy, medium or hard")
	c.Flags().String("category", "", "Category ID from the categories command; empty for any")
}

// configFromFlags validates the quiz flags. Category membership is left to
// the API since the category list is not fetched here.
func configFromFlags(cmd *cobra.Command) (quiz.Configuration, error) {
	amount, _ := cmd.Flags().GetString("amount")
	diffText, _ := cmd.Flags().GetString("difficulty")
	category, _ := cmd.Flags().GetString("category")

	difficulty, err := quiz.ParseDifficulty(diffText)
	if err != nil {
		return quiz.Configuration{}, err
	}
	return quiz.ParseConfiguration(amount, difficulty, category, nil)
}
