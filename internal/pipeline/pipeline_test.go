package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postforge/internal/agents"
	"postforge/internal/models"
	"postforge/internal/prompt"
	"postforge/internal/store"
	"postforge/internal/strategy"
)

const profileJSON = `{
	"content_types": ["educational", "opinion"],
	"has_personal_stories": true,
	"has_actionable_advice": true,
	"has_resource_mentions": false,
	"has_project_context": false,
	"has_strong_opinions": true,
	"length": "medium"
}`

const evaluationJSON = `{
	"score": 72,
	"breakdown": {"hook": 7, "insight": 7, "authenticity": 7, "specificity": 7, "brevity": 7, "relatability": 7, "shareability": 7},
	"reasoning": "fine"
}`

// routerBackend answers classification and evaluation prompts with
// canned JSON and generation prompts with a configurable response.
type routerBackend struct {
	genResponse string
	genErr      error
	genCalls    int
}

func (b *routerBackend) Generate(_ context.Context, p string) (string, error) {
	switch {
	case strings.Contains(p, "profile its content"):
		return profileJSON, nil
	case strings.HasPrefix(p, "EVAL"):
		return evaluationJSON, nil
	default:
		b.genCalls++
		if b.genErr != nil {
			return "", b.genErr
		}
		return b.genResponse, nil
	}
}

func (b *routerBackend) ModelName() string    { return "test-model" }
func (b *routerBackend) Temperature() float64 { return 0.5 }

func testTemplates() *prompt.Templates {
	return &prompt.Templates{
		System:       "SYS",
		StyleGuide:   "STYLE",
		Instructions: "INSTR",
		Evaluation:   "EVAL {{post}}",
	}
}

func testCatalog(t *testing.T) *strategy.Catalog {
	t.Helper()
	catalog, err := strategy.ParseCatalog([]byte(`
strategies:
  - {id: open, name: Open question, category: engagement, prompt: ask}
`))
	require.NoError(t, err)
	return catalog
}

type fixture struct {
	dir      string
	pipe     *Pipeline
	posts    *store.PostStore
	backend  *routerBackend
	dataDir  string
	catalog  *strategy.Catalog
	tracker  *store.Tracker
}

func newFixture(t *testing.T, catalog *strategy.Catalog, backend *routerBackend) *fixture {
	t.Helper()
	dir := t.TempDir()
	dataDir := t.TempDir()

	tracker, err := store.NewTracker(filepath.Join(dataDir, "processed.json"))
	require.NoError(t, err)
	posts := store.NewPostStore(filepath.Join(dataDir, "posts.jsonl"))
	templates := testTemplates()

	pipe := New(
		backend,
		tracker,
		posts,
		catalog,
		strategy.NewSelector(1, nil),
		templates,
		agents.NewClassifier(backend),
		agents.NewEvaluator(backend, templates.Evaluation),
	)
	return &fixture{dir: dir, pipe: pipe, posts: posts, backend: backend, dataDir: dataDir, catalog: catalog, tracker: tracker}
}

func (f *fixture) addTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunGeneratesAndTracks(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A sharp post about testing."})
	f.addTranscript(t, "a.md", "transcript a")
	f.addTranscript(t, "b.txt", "transcript b")
	f.addTranscript(t, "ignored.json", "not a transcript")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 2, stats.Generated)
	assert.Equal(t, 0, stats.Errors)

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, models.StatusNew, p.Status)
		assert.Equal(t, "test-model", p.Metadata.Model)
		require.NotNil(t, p.Metadata.Strategy)
		assert.Equal(t, "open", p.Metadata.Strategy.ID)
		require.NotNil(t, p.Metadata.BangerScore)
		assert.Equal(t, 72, *p.Metadata.BangerScore)
	}
}

func TestSecondRunSkipsProcessedTranscripts(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A post."})
	f.addTranscript(t, "a.md", "transcript a")

	_, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Processed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Generated)

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	assert.Len(t, posts, 1, "no duplicate posts on a second run")
}

func TestForceReprocesses(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A post."})
	f.addTranscript(t, "a.md", "transcript a")

	_, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1, Force: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 1, stats.Generated)

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestModifiedTranscriptReprocessedWithoutForce(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A post."})
	path := f.addTranscript(t, "a.md", "transcript a")

	_, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, later, later))

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 0, stats.Skipped)
}

func TestPlaceholderOnlyResponseCountsAsError(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "Ask [Name] at [Company]."})
	f.addTranscript(t, "a.md", "transcript a")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed, "generation errors do not abort the document")
	assert.Equal(t, 0, stats.Generated)
	assert.Equal(t, 1, stats.Errors)

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, posts, "placeholder posts are never stored")
}

func TestBackendErrorCountsAndContinues(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genErr: fmt.Errorf("model crashed")})
	f.addTranscript(t, "a.md", "transcript a")
	f.addTranscript(t, "b.md", "transcript b")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 2, stats.Errors)
	assert.Equal(t, 0, stats.Generated)
}

func TestEmptyTranscriptSkipped(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A post."})
	f.addTranscript(t, "empty.md", "   \n  ")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Processed)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, f.backend.genCalls)
}

func TestEmptyCatalogUsesBatchMode(t *testing.T) {
	backend := &routerBackend{genResponse: `[{"content": "batch post one"}, {"content": "batch post two"}]`}
	f := newFixture(t, &strategy.Catalog{}, backend)
	f.addTranscript(t, "a.md", "transcript a")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 2, stats.Generated)
	assert.Equal(t, 1, backend.genCalls, "batch mode is one call per transcript")

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Nil(t, posts[0].Metadata.Strategy)
}

func TestManualStrategyOverride(t *testing.T) {
	catalog, err := strategy.ParseCatalog([]byte(`
strategies:
  - {id: one, name: One, category: personal, prompt: p1}
  - {id: two, name: Two, category: opinion, prompt: p2}
  - {id: three, name: Three, category: resource, prompt: p3}
`))
	require.NoError(t, err)

	backend := &routerBackend{genResponse: "A post."}
	f := newFixture(t, catalog, backend)
	f.addTranscript(t, "a.md", "transcript a")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{StrategyIDs: []string{"two"}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Generated)

	posts, err := f.posts.ReadAll()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].Metadata.Strategy)
	assert.Equal(t, "two", posts[0].Metadata.Strategy.ID)
}

func TestManualStrategyOverrideUnknownID(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "A post."})
	f.addTranscript(t, "a.md", "transcript a")

	_, err := f.pipe.Run(context.Background(), f.dir, Options{StrategyIDs: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestDelimitedResponseStoresMultiplePosts(t *testing.T) {
	f := newFixture(t, testCatalog(t), &routerBackend{genResponse: "First post.\n---\nSecond post."})
	f.addTranscript(t, "a.md", "transcript a")

	stats, err := f.pipe.Run(context.Background(), f.dir, Options{PostsPerDoc: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Generated)
}
