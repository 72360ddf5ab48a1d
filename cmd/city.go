package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/fzzzy/rube-iks-cube/internal/aiquery"
	"github.com/spf13/cobra"
)

var cityCmd = &cobra.Command{
	Use:   "city [country]",
	Short: "Ask the model for a country's most populous city, as structured data",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country := "Canada"
		if len(args) == 1 {
			country = args[0]
		}

		client := aiquery.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, "")

		color.Blue("Asking about the most populous city in %s...", country)
		city, err := client.MostPopulousCity(cmd.Context(), country)
		if err != nil {
			return fmt.Errorf("structured query failed: %w", err)
		}

		border := strings.Repeat("─", 44)
		fmt.Println(border)
		fmt.Printf("%s %s\n", color.New(color.Bold, color.FgGreen).Sprint("City:"), city.City)
		fmt.Printf("%s %d\n", color.New(color.Bold, color.FgGreen).Sprint("Population:"), city.Population)
		fmt.Println(border)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cityCmd)
}
