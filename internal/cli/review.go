package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"postforge/config"
	"postforge/internal/models"
	"postforge/internal/review"
	"postforge/internal/slack"
	"postforge/internal/store"
	"postforge/internal/typefully"
)

var reviewMinScore int

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review unreviewed posts and stage keepers as Typefully drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		if cfg.TypefullyAPIKey == "" {
			return fmt.Errorf("configuration error: TYPEFULLY_API_KEY is required for review")
		}
		ctx := context.Background()

		posts := store.NewPostStore(cfg.PostsPath())

		var notifier review.Notifier
		if n := slack.NewNotifier(cfg.SlackToken, cfg.SlackChannel); n != nil {
			notifier = n
		}

		session := review.NewSession(
			posts,
			typefullyDrafter{client: typefully.NewClient(cfg.TypefullyAPIKey)},
			&terminalPrompter{reader: bufio.NewReader(os.Stdin)},
			notifier,
			reviewMinScore,
		)

		summary, err := session.Run(ctx)
		if summary != nil {
			fmt.Println()
			fmt.Println(summaryStyle.Render("Review summary"))
			fmt.Printf("  reviewed: %d\n  kept:     %d\n  staged:   %d\n  rejected: %d\n  skipped:  %d\n",
				summary.Reviewed, summary.Kept, summary.Staged, summary.Rejected, summary.Skipped)
			if summary.StageFailures > 0 {
				fmt.Printf("  stage failures: %d (posts kept their previous status)\n", summary.StageFailures)
			}
		}
		return err
	},
}

func init() {
	reviewCmd.Flags().IntVar(&reviewMinScore, "min-score", 0, "only review posts with at least this banger score")
	rootCmd.AddCommand(reviewCmd)
}

// typefullyDrafter adapts the Typefully client to the review loop.
type typefullyDrafter struct {
	client *typefully.Client
}

func (d typefullyDrafter) CreateDraft(ctx context.Context, text string) (string, string, error) {
	draft, err := d.client.CreateDraft(ctx, text)
	if err != nil {
		return "", "", err
	}
	return strconv.FormatInt(draft.ID, 10), draft.ShareURL, nil
}

// terminalPrompter renders one post at a time and reads a decision
// from stdin.
type terminalPrompter struct {
	reader *bufio.Reader
}

func (p *terminalPrompter) Decide(post *models.Post, index, total int) (review.Decision, error) {
	fmt.Println()
	header := fmt.Sprintf("Post %d/%d", index, total)
	meta := fmt.Sprintf("score %s · status %s", renderScore(post.Score()), post.Status)
	if post.Metadata.Strategy != nil {
		meta += fmt.Sprintf(" · %s (%s)", post.Metadata.Strategy.Name, post.Metadata.Strategy.Category)
	}
	fmt.Println(titleStyle.Render(header) + "  " + meta)
	fmt.Println(mutedStyle.Render(post.SourceFile))
	fmt.Println(postBoxStyle.Render(post.Content))
	if post.Metadata.BangerEvaluation != nil && post.Metadata.BangerEvaluation.Reasoning != "" {
		fmt.Println(mutedStyle.Render("eval: " + post.Metadata.BangerEvaluation.Reasoning))
	}

	for {
		fmt.Print("[k]eep  [s]tage  [r]eject  [n]ext  [q]uit > ")
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return review.DecisionQuit, fmt.Errorf("failed to read input: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "k", "keep":
			return review.DecisionKeep, nil
		case "s", "stage":
			return review.DecisionStage, nil
		case "r", "reject":
			return review.DecisionReject, nil
		case "n", "next", "":
			return review.DecisionSkip, nil
		case "q", "quit":
			return review.DecisionQuit, nil
		default:
			fmt.Println(mutedStyle.Render("unrecognized choice"))
		}
	}
}
