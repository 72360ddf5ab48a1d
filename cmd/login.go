package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/fzzzy/rube-iks-cube/internal/authflow"
	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
	"github.com/spf13/cobra"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the interactive OAuth flow and print a token preview",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" {
			email = cfg.OAuth.Email
		}
		if email == "" {
			fmt.Print("Enter your email address for the login hint: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && strings.TrimSpace(line) == "" {
				return fmt.Errorf("reading email: %w", err)
			}
			email = strings.TrimSpace(line)
		}
		if email == "" {
			return fmt.Errorf("no email provided")
		}

		flow := authflow.NewFlow(authflow.Endpoints{
			AuthorizationURL: cfg.OAuth.AuthorizationEndpoint,
			TokenURL:         cfg.OAuth.TokenEndpoint,
			ClientID:         cfg.OAuth.ClientID,
			ClientSecret:     cfg.OAuth.ClientSecret,
			RedirectURI:      cfg.OAuth.RedirectURI,
		})

		cred, err := flow.Authorize(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("authorization flow failed: %w", err)
		}
		token, ok := cred.(mcpclient.BearerToken)
		if !ok || token == "" {
			color.Red("Failed to obtain an access token")
			return fmt.Errorf("no token obtained")
		}

		color.Green("Success! Access token obtained: %s", authflow.TokenPreview(string(token)))
		fmt.Println("Subsequent tools commands will still prompt; tokens are not persisted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email address used as the OAuth login hint")
}
