package pipeline

import (
	"context"
	"log"
	"os"
	"strings"

	"postforge/internal/agents"
	"postforge/internal/models"
	"postforge/internal/parser"
	"postforge/internal/prompt"
	"postforge/internal/scanner"
	"postforge/internal/store"
	"postforge/internal/strategy"
)

// Backend is the full generation interface the pipeline needs.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
	Temperature() float64
}

// Options control one pipeline run.
type Options struct {
	Force         bool     // reprocess transcripts even when already tracked
	PostsPerDoc   int      // target number of strategies per transcript
	PreferThreads bool     // bias selection toward thread-friendly strategies
	StrategyIDs   []string // manual override, bypasses the selector
}

// Stats are the user-visible summary counts of a run.
type Stats struct {
	Processed int
	Skipped   int
	Generated int
	Errors    int
}

// Pipeline converts transcripts into stored posts. Strictly
// sequential: one transcript, one strategy, one backend call at a time.
type Pipeline struct {
	backend    Backend
	tracker    *store.Tracker
	posts      *store.PostStore
	catalog    *strategy.Catalog
	selector   *strategy.Selector
	templates  *prompt.Templates
	classifier *agents.Classifier
	evaluator  *agents.Evaluator
}

func New(
	backend Backend,
	tracker *store.Tracker,
	posts *store.PostStore,
	catalog *strategy.Catalog,
	selector *strategy.Selector,
	templates *prompt.Templates,
	classifier *agents.Classifier,
	evaluator *agents.Evaluator,
) *Pipeline {
	return &Pipeline{
		backend:    backend,
		tracker:    tracker,
		posts:      posts,
		catalog:    catalog,
		selector:   selector,
		templates:  templates,
		classifier: classifier,
		evaluator:  evaluator,
	}
}

// Run processes every eligible transcript in dir. Per-document and
// per-generation failures are counted and skipped; storage failures
// abort the run.
func (p *Pipeline) Run(ctx context.Context, dir string, opts Options) (*Stats, error) {
	paths, err := scanner.ListTranscripts(dir)
	if err != nil {
		return nil, err
	}

	// Manual strategy overrides must resolve before any work starts.
	var override []strategy.Strategy
	if len(opts.StrategyIDs) > 0 {
		override, err = p.catalog.ByIDs(opts.StrategyIDs)
		if err != nil {
			return nil, err
		}
	}

	stats := &Stats{}
	for _, path := range paths {
		if !opts.Force && p.tracker.IsProcessed(path) {
			log.Printf("⏭️  Skipping %s (already processed)", path)
			stats.Skipped++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️ Failed to read %s: %v", path, err)
			stats.Errors++
			continue
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			log.Printf("⏭️  Skipping %s (empty)", path)
			stats.Skipped++
			continue
		}

		generated, err := p.processTranscript(ctx, path, text, opts, override, stats)
		if err != nil {
			return stats, err
		}

		// Saved per document, so a crash later in the run never
		// redoes the transcripts that already completed.
		if err := p.tracker.MarkProcessed(path, generated); err != nil {
			return stats, err
		}
		stats.Processed++
	}
	return stats, nil
}

// processTranscript runs classification, selection and generation for
// one document and returns how many posts it stored.
func (p *Pipeline) processTranscript(ctx context.Context, path, text string, opts Options, override []strategy.Strategy, stats *Stats) (int, error) {
	log.Printf("📄 Processing %s", path)

	if len(override) > 0 {
		return p.generateWithStrategies(ctx, path, text, override, stats)
	}
	if p.catalog.Empty() {
		return p.generateBatch(ctx, path, text, stats)
	}

	profile := p.classifier.Classify(ctx, text)
	selected := p.selector.Select(p.catalog, profile, opts.PostsPerDoc, opts.PreferThreads)
	if len(selected) == 0 {
		log.Printf("⚠️ No applicable strategies for %s, falling back to batch mode", path)
		return p.generateBatch(ctx, path, text, stats)
	}
	return p.generateWithStrategies(ctx, path, text, selected, stats)
}

func (p *Pipeline) generateWithStrategies(ctx context.Context, path, text string, strategies []strategy.Strategy, stats *Stats) (int, error) {
	generated := 0
	for _, s := range strategies {
		response, err := p.backend.Generate(ctx, prompt.Build(p.templates, s.Prompt, text))
		if err != nil {
			log.Printf("⚠️ Generation failed for strategy %s on %s: %v", s.ID, path, err)
			stats.Errors++
			continue
		}

		result := parser.ParseDelimited(response)
		if !result.OK() {
			log.Printf("⚠️ Strategy %s on %s produced no usable posts: %s", s.ID, path, result.Reason)
			stats.Errors++
			continue
		}

		for _, content := range result.Posts {
			if err := p.storePost(ctx, path, content, s.Ref(), stats); err != nil {
				return generated, err
			}
			generated++
		}
	}
	return generated, nil
}

// generateBatch is the legacy mode used when no catalog exists: one
// call per transcript, structured-array output.
func (p *Pipeline) generateBatch(ctx context.Context, path, text string, stats *Stats) (int, error) {
	response, err := p.backend.Generate(ctx, prompt.BuildBatch(p.templates, text))
	if err != nil {
		log.Printf("⚠️ Generation failed for %s: %v", path, err)
		stats.Errors++
		return 0, nil
	}

	result := parser.ParseStructured(response)
	if !result.OK() {
		log.Printf("⚠️ %s produced no usable posts: %s", path, result.Reason)
		stats.Errors++
		return 0, nil
	}

	generated := 0
	for _, content := range result.Posts {
		if err := p.storePost(ctx, path, content, nil, stats); err != nil {
			return generated, err
		}
		generated++
	}
	return generated, nil
}

// storePost evaluates and appends one post. Evaluation failures leave
// the post unscored; an append failure is a storage error and fatal.
func (p *Pipeline) storePost(ctx context.Context, path, content string, ref *models.StrategyRef, stats *Stats) error {
	post := store.NewPost(path, content, p.backend.ModelName(), p.backend.Temperature())
	post.Metadata.Strategy = ref

	if p.evaluator != nil {
		eval, err := p.evaluator.Evaluate(ctx, content)
		if err != nil {
			log.Printf("⚠️ Evaluation call failed, storing post unscored: %v", err)
		}
		if eval != nil {
			score := eval.Score
			post.Metadata.BangerScore = &score
			post.Metadata.BangerEvaluation = eval
		}
	}

	if err := p.posts.Append(post); err != nil {
		return err
	}
	stats.Generated++
	return nil
}
