package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facegate/internal/config"
	"facegate/internal/matcher"
)

// errNoMatch is the scripted failure outcome: the photo matched nobody.
// Returning it (instead of exiting directly) lets deferred cleanup run,
// including closing the database pool on the PostgreSQL backend.
var errNoMatch = errors.New("no match")

var recognizeCmd = &cobra.Command{
	Use:   "recognize <photo>",
	Short: "Recognize a face in a photo",
	Long: `Match a photo against the enrolled gallery and print the decision.
Exits non-zero when nobody matches, so the command can be scripted.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	imageData, err := os.ReadFile(args[0]) //nolint:gosec // user-supplied CLI path
	if err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}

	ctx := cmd.Context()
	m, store, err := newMatcher(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := m.Recognize(ctx, imageData)
	if err != nil {
		return fmt.Errorf("recognition failed: %w", err)
	}

	fmt.Println(recognitionSummary(result, m.Threshold()))
	if !result.Matched {
		return errNoMatch
	}
	return nil
}

// recognitionSummary renders the match decision for the terminal.
func recognitionSummary(result matcher.MatchResult, threshold float64) string {
	switch {
	case result.Matched:
		return fmt.Sprintf("Match: %s (score %.4f, threshold %.2f)", result.Label, result.Score, threshold)
	case result.Score < 0:
		return "No match: no face detected or gallery empty"
	default:
		return fmt.Sprintf("No match: best score %.4f is not above threshold %.2f", result.Score, threshold)
	}
}
