package cmd

import (
	"fmt"
	"os"

	"github.com/fzzzy/rube-iks-cube/internal/authflow"
	"github.com/fzzzy/rube-iks-cube/internal/config"
	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rube-iks-cube",
	Short: "An MCP client with interactive OAuth reauthentication",
	Long: `A session-oriented MCP (Model Context Protocol) client. It lists and calls
tools on a streamable HTTP server, and recovers from authorization failures
by running an interactive OAuth 2.0 flow and retrying once with the token.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a rube.yaml configuration file")
}

// newToolClient wires the MCP client and its reauthenticating wrapper from
// the loaded configuration.
func newToolClient() (*mcpclient.Client, *authflow.Authenticator) {
	client := mcpclient.NewClient(mcpclient.SessionConfig{
		Endpoint: cfg.MCP.URL,
		Headers:  cfg.MCP.Headers,
		Timeout:  cfg.MCP.Timeout,
	})
	flow := authflow.NewFlow(authflow.Endpoints{
		AuthorizationURL: cfg.OAuth.AuthorizationEndpoint,
		TokenURL:         cfg.OAuth.TokenEndpoint,
		ClientID:         cfg.OAuth.ClientID,
		ClientSecret:     cfg.OAuth.ClientSecret,
		RedirectURI:      cfg.OAuth.RedirectURI,
	})
	return client, authflow.NewAuthenticator(flow, cfg.OAuth.Email)
}
