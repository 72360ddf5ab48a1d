package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fzzzy/rube-iks-cube/internal/examplemcp"
	"github.com/spf13/cobra"
)

var (
	demoName       string
	demoPort       int
	demoAuthToken  string
	demoStructured bool
)

var demoServerCmd = &cobra.Command{
	Use:   "demo-server",
	Short: "Run a local example MCP server",
	Long: `Runs a local streamable HTTP MCP server with a couple of demo tools, so the
client can be exercised end to end without a remote account. With --auth-token
the server rejects unauthenticated requests, which exercises the OAuth retry
path.`,
	Run: runDemoServer,
}

func init() {
	rootCmd.AddCommand(demoServerCmd)
	demoServerCmd.Flags().StringVarP(&demoName, "name", "n", "rube-demo", "The name the server reports in the handshake")
	demoServerCmd.Flags().IntVarP(&demoPort, "port", "p", 8888, "The port to listen on")
	demoServerCmd.Flags().StringVar(&demoAuthToken, "auth-token", "", "Require this bearer token on every request")
	demoServerCmd.Flags().BoolVar(&demoStructured, "structured", false, "Serve the structured-content variant instead")
}

func runDemoServer(cmd *cobra.Command, args []string) {
	var handler http.Handler
	if demoStructured {
		handler = examplemcp.RunStructuredServer(demoName)
	} else {
		handler = examplemcp.RunDemoServer(demoName, "/mcp")
	}
	if demoAuthToken != "" {
		handler = examplemcp.RequireBearer(handler, demoAuthToken)
	}

	addr := fmt.Sprintf(":%d", demoPort)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("demo MCP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not listen on %s: %v\n", addr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
