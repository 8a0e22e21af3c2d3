package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"facegate/internal/config"
)

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "List enrolled identities",
	RunE:  runGallery,
}

func init() {
	rootCmd.AddCommand(galleryCmd)

	galleryCmd.Flags().String("person", "", "Only show records matching this label (case and diacritic insensitive)")
}

func runGallery(cmd *cobra.Command, args []string) error {
	person := mustGetString(cmd, "person")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot := store.Snapshot()
	if person != "" {
		snapshot = snapshot.FilterByLabel(person)
	}

	if len(snapshot) == 0 {
		fmt.Println("Gallery is empty")
		return nil
	}

	fmt.Printf("%d records, dimension %d\n", len(snapshot), snapshot.Dim())
	for _, lc := range snapshot.Labels() {
		fmt.Printf("  %-30s %d record(s)\n", lc.Label, lc.Records)
	}
	return nil
}
