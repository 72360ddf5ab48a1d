package authflow

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
)

// Authorize runs the interactive flow: build the authorization URL, open it
// in a browser, wait for the user to finish logging in, then accept a token
// pasted from the browser's session storage or network inspector. Returns a
// nil credential without error when the user supplies nothing.
func (f *Flow) Authorize(ctx context.Context, email string) (mcpclient.Credential, error) {
	authURL, _, err := f.BeginAuthorization(email)
	if err != nil {
		return nil, err
	}

	color.New(color.FgBlue, color.Bold).Fprintln(f.out, "Starting OAuth 2.0 authorization flow")

	if err := f.openBrowser(authURL); err != nil {
		color.New(color.FgYellow).Fprintf(f.out, "Could not open a browser: %v\n", err)
		fmt.Fprintf(f.out, "Please open this URL manually:\n%s\n", authURL)
	} else {
		color.New(color.FgGreen).Fprintln(f.out, "Browser opened")
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "1. Complete the OAuth login in your browser")
	fmt.Fprintln(f.out, "2. You should land on the provider's dashboard")
	fmt.Fprintln(f.out, "3. Then come back here to hand over the session token")

	if _, err := f.prompt("\nPress Enter once you are signed in"); err != nil {
		return nil, fmt.Errorf("reading confirmation: %w", err)
	}

	fmt.Fprintln(f.out)
	color.New(color.FgYellow, color.Bold).Fprintln(f.out, "Token extraction")
	fmt.Fprintln(f.out, "Via developer tools: open Application/Storage for the site and look")
	fmt.Fprintln(f.out, "in Local/Session Storage for keys like token, access_token, session.")
	fmt.Fprintln(f.out, "Via the Network tab: refresh the page and copy the value of an")
	fmt.Fprintln(f.out, "'Authorization: Bearer ...' request header.")

	raw, err := f.prompt("\nPaste your authentication token")
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}

	token := CleanToken(raw)
	if token == "" {
		color.New(color.FgRed).Fprintln(f.out, "No token provided")
		return nil, nil
	}

	color.New(color.FgGreen).Fprintf(f.out, "Token received: %s\n", TokenPreview(token))
	return mcpclient.BearerToken(token), nil
}

// CleanToken trims whitespace and strips a leading "Bearer " prefix,
// case-insensitively, from a pasted token.
func CleanToken(raw string) string {
	token := strings.TrimSpace(raw)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

// TokenPreview is the first few characters of a token, safe to echo back.
func TokenPreview(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}

func (f *Flow) prompt(label string) (string, error) {
	fmt.Fprintf(f.out, "%s: ", label)
	line, err := f.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func openInBrowser(u string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", u)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", u)
	default:
		cmd = exec.Command("xdg-open", u)
	}
	return cmd.Run()
}
