package models

import "time"

// Post statuses. A post starts as "new" and only the review loop moves it
// forward, except "published" which is set by an external process.
const (
	StatusNew       = "new"
	StatusKeep      = "keep"
	StatusStaged    = "staged"
	StatusRejected  = "rejected"
	StatusPublished = "published"
)

// Post represents one generated post in any stage of its lifecycle.
type Post struct {
	ID         string       `json:"id"`
	SourceFile string       `json:"source_file"`
	Content    string       `json:"content"`
	Metadata   PostMetadata `json:"metadata"`
	Timestamp  time.Time    `json:"timestamp"`
	Status     string       `json:"status"`
}

// PostMetadata carries how a post was generated and how it scored.
type PostMetadata struct {
	Model            string            `json:"model"`
	Temperature      float64           `json:"temperature"`
	Strategy         *StrategyRef      `json:"strategy,omitempty"`
	BangerScore      *int              `json:"banger_score,omitempty"`
	BangerEvaluation *BangerEvaluation `json:"banger_evaluation,omitempty"`
	TypefullyDraftID string            `json:"typefully_draft_id,omitempty"`
}

// StrategyRef records which catalog strategy produced a post.
type StrategyRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// BangerEvaluation is the parsed verdict from the evaluation prompt.
// Score is always within [1, 99] once stored.
type BangerEvaluation struct {
	Score     int            `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Reasoning string         `json:"reasoning"`
}

// ScoreBreakdown splits a banger score into its component judgments.
type ScoreBreakdown struct {
	Hook         int `json:"hook"`
	Insight      int `json:"insight"`
	Authenticity int `json:"authenticity"`
	Specificity  int `json:"specificity"`
	Brevity      int `json:"brevity"`
	Relatability int `json:"relatability"`
	Shareability int `json:"shareability"`
}

// Score returns the post's banger score, or 0 if it was never evaluated.
// Unscored posts sort below every scored post.
func (p *Post) Score() int {
	if p.Metadata.BangerScore == nil {
		return 0
	}
	return *p.Metadata.BangerScore
}

// Reviewable reports whether the review loop should offer this post.
func (p *Post) Reviewable() bool {
	return p.Status == StatusNew || p.Status == StatusKeep
}
