package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"facegate/internal/config"
	"facegate/internal/matcher"
)

var enrollDirCmd = &cobra.Command{
	Use:   "enroll-dir <directory>",
	Short: "Enroll every photo in a directory",
	Long: `Bulk-enroll a directory of photos. By default each photo is enrolled
under a label derived from its file name ("alice.jpg" -> "alice",
"alice_2.jpg" -> "alice"); --label forces a single label for all of them.
Photos with no detectable face are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrollDir,
}

func init() {
	rootCmd.AddCommand(enrollDirCmd)

	enrollDirCmd.Flags().String("label", "", "Enroll every photo under this label instead of deriving labels from file names")
}

// photoExtensions are the upload formats the embedding service accepts.
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// labelFromFileName derives an enrollment label from a photo file name:
// extension stripped, trailing _N / -N counters removed.
func labelFromFileName(name string) string {
	label := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndexAny(label, "_-"); i > 0 {
		suffix := label[i+1:]
		if suffix != "" && strings.Trim(suffix, "0123456789") == "" {
			label = label[:i]
		}
	}
	return label
}

func runEnrollDir(cmd *cobra.Command, args []string) error {
	dir := args[0]
	forcedLabel := mustGetString(cmd, "label")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}

	var photos []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if photoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			photos = append(photos, entry.Name())
		}
	}
	if len(photos) == 0 {
		return fmt.Errorf("no photos found in %s", dir)
	}

	ctx := cmd.Context()
	m, store, err := newMatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	bar := progressbar.NewOptions(len(photos),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var enrolled, skipped int
	var failures []string
	for _, name := range photos {
		label := forcedLabel
		if label == "" {
			label = labelFromFileName(name)
		}

		imageData, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // user-supplied CLI path
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			_ = bar.Add(1)
			continue
		}

		if _, err := m.Enroll(ctx, label, imageData); err != nil {
			if errors.Is(err, matcher.ErrNoFaceDetected) {
				skipped++
			} else {
				failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			}
			_ = bar.Add(1)
			continue
		}
		enrolled++
		_ = bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("Enrolled %d photos, %d without a detectable face\n", enrolled, skipped)
	if len(failures) > 0 {
		fmt.Printf("%d failures:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		return fmt.Errorf("%d photos failed to enroll", len(failures))
	}
	return nil
}
