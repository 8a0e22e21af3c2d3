package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"facegate/internal/config"
	"facegate/internal/gallery"
	"facegate/internal/matcher"
	"facegate/internal/provider"
)

var rootCmd = &cobra.Command{
	Use:   "facegate",
	Short: "A face check-in service backed by embedding similarity search",
	Long: `FaceGate enrolls people from photos and recognizes them later by
comparing face embedding vectors. Embeddings come from an external
face embedding service; the gallery of enrolled identities is kept
in a local JSON file or a pgvector-enabled PostgreSQL database.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// newStore picks the gallery backend from config and loads it.
func newStore(ctx context.Context, cfg *config.Config) (gallery.Store, error) {
	var store gallery.Store
	if cfg.Storage.DatabaseURL != "" {
		pg, err := gallery.NewPostgresStore(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initializing PostgreSQL gallery: %w", err)
		}
		store = pg
	} else {
		store = gallery.NewFileStore(cfg.Storage.GalleryPath)
	}

	if err := store.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("loading gallery: %w", err)
	}
	return store, nil
}

// newMatcher wires the matching service from config.
func newMatcher(ctx context.Context, cfg *config.Config) (*matcher.Service, gallery.Store, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	embedder := provider.New(cfg.Provider.Endpoint, cfg.Provider.APIKey, cfg.Provider.Timeout)
	return matcher.New(store, embedder, cfg.Matching.Threshold), store, nil
}
