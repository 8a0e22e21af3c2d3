package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facegate/internal/config"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <label> <photo>",
	Short: "Enroll a face from a photo",
	Long: `Enroll one face into the gallery. The photo is sent to the embedding
service; the first detected face is stored under the given label.`,
	Args: cobra.ExactArgs(2),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	label, photoPath := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	imageData, err := os.ReadFile(photoPath) //nolint:gosec // user-supplied CLI path
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}

	ctx := cmd.Context()
	m, store, err := newMatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := m.Enroll(ctx, label, imageData)
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	fmt.Printf("Enrolled %q (record %s, dimension %d)\n", rec.Label, rec.ID, len(rec.Vector))
	fmt.Printf("Gallery now holds %d records\n", store.Count())
	return nil
}
