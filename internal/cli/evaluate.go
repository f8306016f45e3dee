package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"postforge/config"
	"postforge/internal/agents"
	"postforge/internal/ollama"
	"postforge/internal/prompt"
	"postforge/internal/store"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score stored posts that are missing a banger score",
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
		backend := ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Temperature)
		if err := backend.EnsureAvailable(ctx); err != nil {
			return err
		}
		evaluator := agents.NewEvaluator(backend, templates.Evaluation)

		posts := store.NewPostStore(cfg.PostsPath())
		all, err := posts.ReadAll()
		if err != nil {
			return err
		}

		scored := 0
		missing := 0
		for _, post := range all {
			if post.Metadata.BangerScore != nil {
				continue
			}
			missing++

			eval, err := evaluator.Evaluate(ctx, post.Content)
			if err != nil {
				log.Printf("⚠️ Evaluation call failed for %s: %v", post.ID, err)
				continue
			}
			if eval == nil {
				continue
			}

			score := eval.Score
			post.Metadata.BangerScore = &score
			post.Metadata.BangerEvaluation = eval
			if err := posts.Update(post); err != nil {
				return err
			}
			scored++
		}

		fmt.Println(summaryStyle.Render("Evaluation summary"))
		fmt.Printf("  unscored posts: %d\n  newly scored:   %d\n", missing, scored)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
