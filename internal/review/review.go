package review

import (
	"context"
	"log"
	"sort"

	"postforge/internal/models"
	"postforge/internal/store"
)

// Decision is the operator's verdict on one post.
type Decision int

const (
	DecisionSkip Decision = iota
	DecisionKeep
	DecisionStage
	DecisionReject
	DecisionQuit
)

// Prompter asks the operator for a decision on one post. Index and
// total describe the position in the current session.
type Prompter interface {
	Decide(post *models.Post, index, total int) (Decision, error)
}

// Drafter is the external publish service. CreateDraft must succeed
// before any staged status is persisted.
type Drafter interface {
	CreateDraft(ctx context.Context, text string) (draftID, shareURL string, err error)
}

// Notifier announces staged drafts somewhere out of band. Failures are
// logged, never fatal.
type Notifier interface {
	NotifyStaged(postContent, shareURL string) error
}

// Summary counts what happened in one review session.
type Summary struct {
	Reviewed      int
	Kept          int
	Staged        int
	Rejected      int
	Skipped       int
	StageFailures int
	Quit          bool
}

// Session walks unreviewed posts in descending score order and applies
// one decision at a time. Every decision is persisted immediately, so
// quitting mid-session never loses earlier decisions.
type Session struct {
	posts    *store.PostStore
	drafter  Drafter
	prompter Prompter
	notifier Notifier
	minScore int // 0 means no score filter
}

func NewSession(posts *store.PostStore, drafter Drafter, prompter Prompter, notifier Notifier, minScore int) *Session {
	return &Session{
		posts:    posts,
		drafter:  drafter,
		prompter: prompter,
		notifier: notifier,
		minScore: minScore,
	}
}

// Candidates returns the posts eligible for review: status new or
// keep, passing the score threshold, best score first. Posts without a
// score sort last and never pass a threshold.
func Candidates(posts []*models.Post, minScore int) []*models.Post {
	var out []*models.Post
	for _, p := range posts {
		if !p.Reviewable() {
			continue
		}
		if minScore > 0 && p.Score() < minScore {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// Run drives one review session until the candidates run out or the
// operator quits. Storage errors abort; a failed stage call reverts
// that post and moves on.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	all, err := s.posts.ReadAll()
	if err != nil {
		return nil, err
	}
	candidates := Candidates(all, s.minScore)

	summary := &Summary{}
	for i, post := range candidates {
		decision, err := s.prompter.Decide(post, i+1, len(candidates))
		if err != nil {
			return summary, err
		}
		summary.Reviewed++

		switch decision {
		case DecisionKeep:
			post.Status = models.StatusKeep
			if err := s.posts.Update(post); err != nil {
				return summary, err
			}
			summary.Kept++

		case DecisionReject:
			post.Status = models.StatusRejected
			if err := s.posts.Update(post); err != nil {
				return summary, err
			}
			summary.Rejected++

		case DecisionStage:
			if err := s.stage(ctx, post, summary); err != nil {
				return summary, err
			}

		case DecisionSkip:
			summary.Skipped++

		case DecisionQuit:
			summary.Quit = true
			return summary, nil
		}
	}
	return summary, nil
}

// stage creates the external draft first and only persists the staged
// status once that succeeded. On failure the post keeps its previous
// status and stays eligible for a later session.
func (s *Session) stage(ctx context.Context, post *models.Post, summary *Summary) error {
	prev := post.Status
	post.Status = models.StatusStaged

	draftID, shareURL, err := s.drafter.CreateDraft(ctx, post.Content)
	if err != nil {
		post.Status = prev
		log.Printf("⚠️ Draft creation failed, post stays %s: %v", prev, err)
		summary.StageFailures++
		return nil
	}

	post.Metadata.TypefullyDraftID = draftID
	if err := s.posts.Update(post); err != nil {
		return err
	}
	summary.Staged++

	if s.notifier != nil {
		if err := s.notifier.NotifyStaged(post.Content, shareURL); err != nil {
			log.Printf("⚠️ Slack notification failed: %v", err)
		}
	}
	return nil
}
