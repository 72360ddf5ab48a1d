package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/fzzzy/rube-iks-cube/internal/composio"
	"github.com/spf13/cobra"
)

var hnMinPoints int

var hackernewsCmd = &cobra.Command{
	Use:   "hackernews",
	Short: "Show HackerNews front page stories via the automation API",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := composio.NewClient(cfg.Composio.BaseURL, cfg.Composio.APIKey)

		color.Blue("Getting HackerNews front page stories...")
		result, err := client.Execute(cmd.Context(), composio.FrontpageSlug, map[string]any{
			"min_points": hnMinPoints,
		})
		if err != nil {
			return fmt.Errorf("front page fetch failed: %w", err)
		}

		stories, err := composio.ParseFrontpage(result)
		if err != nil {
			return fmt.Errorf("front page fetch failed: %w", err)
		}

		color.Green("Found %d HackerNews stories:", len(stories))
		for i, story := range stories {
			fmt.Printf("%d. %s %s\n", i+1, story.Title,
				color.New(color.Faint).Sprintf("(%d points)", story.Points))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hackernewsCmd)
	hackernewsCmd.Flags().IntVar(&hnMinPoints, "min-points", 40, "Only show stories with at least this many points")
}
