package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
	"github.com/spf13/cobra"
)

var toolArgsJSON string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and call tools on the MCP server",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools the server exposes",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, auth := newToolClient()

		var tools []mcpclient.Tool
		err := auth.Do(cmd.Context(), func(cred mcpclient.Credential) error {
			var opErr error
			tools, opErr = client.WithCredential(cred).ListTools(cmd.Context())
			return opErr
		})
		if err != nil {
			return describeError(err)
		}

		if len(tools) == 0 {
			color.Yellow("The server exposes no tools")
			return nil
		}
		color.Green("Found %d tools:", len(tools))
		for i, tool := range tools {
			fmt.Printf("%3d. %s", i+1, color.New(color.Bold).Sprint(tool.Name))
			if tool.Description != "" {
				fmt.Printf(" %s", color.New(color.Faint).Sprintf("- %s", tool.Description))
			}
			fmt.Println()
		}
		return nil
	},
}

var toolsCallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Call a named tool with JSON arguments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toolName := args[0]

		arguments := map[string]any{}
		if toolArgsJSON != "" {
			if err := json.Unmarshal([]byte(toolArgsJSON), &arguments); err != nil {
				return fmt.Errorf("invalid --args value, expected a JSON object: %w", err)
			}
		}

		client, auth := newToolClient()

		var result map[string]any
		err := auth.Do(cmd.Context(), func(cred mcpclient.Credential) error {
			var opErr error
			result, opErr = client.WithCredential(cred).CallTool(cmd.Context(), toolName, arguments)
			return opErr
		})
		if err != nil {
			return describeError(err)
		}

		rendered, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render result: %w", err)
		}
		color.Green("Tool %s returned:", toolName)
		fmt.Println(string(rendered))
		return nil
	},
}

// describeError turns the typed error hierarchy into something a person can
// act on: kind plus message, never a stack trace.
func describeError(err error) error {
	switch {
	case isKind[*mcpclient.AuthFailedError](err):
		return fmt.Errorf("authentication failed: the OAuth flow did not yield a working token: %w", err)
	case isKind[*mcpclient.AuthRequiredError](err):
		return fmt.Errorf("the server requires authentication: %w", err)
	case isKind[*mcpclient.TimeoutError](err):
		return fmt.Errorf("the server did not answer in time: %w", err)
	case isKind[*mcpclient.HandshakeError](err):
		return fmt.Errorf("could not establish an MCP session: %w", err)
	case isKind[*mcpclient.ToolCallError](err):
		return fmt.Errorf("the tool invocation failed: %w", err)
	case isKind[*mcpclient.TransportError](err):
		return fmt.Errorf("could not reach the server: %w", err)
	default:
		return err
	}
}

func isKind[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsCallCmd)
	toolsCallCmd.Flags().StringVar(&toolArgsJSON, "args", "", "Tool arguments as a JSON object")
}
