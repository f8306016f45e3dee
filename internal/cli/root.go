package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "postforge",
	Short: "Turn transcripts into reviewed, stageable posts",
	Long: `postforge ingests free-text transcripts, generates short posts from
them through a local Ollama model, scores each post, and walks you
through a review loop that stages keepers as Typefully drafts.

Already-processed transcripts are tracked and skipped on later runs
unless they changed or --force is given.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
