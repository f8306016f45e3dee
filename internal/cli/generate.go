package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"postforge/config"
	"postforge/internal/agents"
	"postforge/internal/ollama"
	"postforge/internal/pipeline"
	"postforge/internal/prompt"
	"postforge/internal/store"
	"postforge/internal/strategy"
)

var (
	generateForce      bool
	generateCount      int
	generateStrategy   string
	generateStrategies []string
	generateThread     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate posts from unprocessed transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		ctx := context.Background()

		templates, err := prompt.LoadTemplates(cfg.TemplatesDir)
		if err != nil {
			return err
		}
		catalog, err := strategy.LoadCatalog(cfg.StrategiesFile)
		if err != nil {
			return err
		}
		if catalog.Empty() {
			log.Println("ℹ️  No strategy catalog found, using legacy batch generation")
		}

		backend := ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Temperature)
		if err := backend.EnsureAvailable(ctx); err != nil {
			return err
		}

		tracker, err := store.NewTracker(cfg.ProcessedPath())
		if err != nil {
			return err
		}
		posts := store.NewPostStore(cfg.PostsPath())

		ids := generateStrategies
		if generateStrategy != "" {
			ids = append([]string{generateStrategy}, ids...)
		}
		count := generateCount
		if count <= 0 {
			count = cfg.PostsPerDoc
		}

		pipe := pipeline.New(
			backend,
			tracker,
			posts,
			catalog,
			strategy.NewSelector(cfg.DiversityWeight, nil),
			templates,
			agents.NewClassifier(backend),
			agents.NewEvaluator(backend, templates.Evaluation),
		)

		log.Printf("🚀 Generating posts from %s with %s", cfg.TranscriptsDir, cfg.OllamaModel)
		stats, err := pipe.Run(ctx, cfg.TranscriptsDir, pipeline.Options{
			Force:         generateForce,
			PostsPerDoc:   count,
			PreferThreads: generateThread,
			StrategyIDs:   ids,
		})
		if stats != nil {
			fmt.Println()
			fmt.Println(summaryStyle.Render("Run summary"))
			fmt.Printf("  processed: %d\n  skipped:   %d\n  generated: %d\n  errors:    %d\n",
				stats.Processed, stats.Skipped, stats.Generated, stats.Errors)
		}
		return err
	},
}

func init() {
	generateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "reprocess transcripts even if already processed")
	generateCmd.Flags().IntVarP(&generateCount, "count", "c", 0, "strategies to sample per transcript (default from config)")
	generateCmd.Flags().StringVar(&generateStrategy, "strategy", "", "use exactly this strategy id")
	generateCmd.Flags().StringSliceVar(&generateStrategies, "strategies", nil, "use exactly these strategy ids")
	generateCmd.Flags().BoolVar(&generateThread, "thread", false, "prefer thread-friendly strategies")
	rootCmd.AddCommand(generateCmd)
}
