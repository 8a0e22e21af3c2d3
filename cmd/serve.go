package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"facegate/internal/config"
	"facegate/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the FaceGate web server.
It exposes the enrollment and recognition endpoints used by the
check-in frontend, plus a read-only gallery listing.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	ctx := cmd.Context()
	m, store, err := newMatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Storage.DatabaseURL != "" {
		fmt.Printf("Using PostgreSQL gallery backend\n")
	} else {
		fmt.Printf("Using file gallery backend (%s)\n", cfg.Storage.GalleryPath)
	}
	fmt.Printf("Gallery loaded: %d records, dimension %d\n", store.Count(), store.Dim())
	fmt.Printf("Similarity threshold: %.2f\n", m.Threshold())

	server := web.NewServer(m, store, cfg.Web.Host, cfg.Web.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		fmt.Printf("Received %s, shutting down...\n", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
