package agents

import (
	"context"
	"encoding/json"
	"log"
	"math"

	"postforge/internal/models"
	"postforge/internal/prompt"
)

// Evaluator scores a post by asking the backend for a structured
// verdict. Evaluation failures never block post creation: the caller
// just proceeds without a score.
type Evaluator struct {
	backend  Backend
	template string
}

func NewEvaluator(backend Backend, template string) *Evaluator {
	return &Evaluator{backend: backend, template: template}
}

// Evaluate scores one post. A backend error is returned; an
// unparseable verdict yields (nil, nil).
func (e *Evaluator) Evaluate(ctx context.Context, postContent string) (*models.BangerEvaluation, error) {
	response, err := e.backend.Generate(ctx, prompt.BuildEvaluate(e.template, postContent))
	if err != nil {
		return nil, err
	}
	eval := ParseEvaluation(response)
	if eval == nil {
		log.Printf("⚠️ Unparseable evaluation response, post stays unscored")
	}
	return eval, nil
}

type evaluationPayload struct {
	Score     *float64               `json:"score"`
	Breakdown *models.ScoreBreakdown `json:"breakdown"`
	Reasoning *string                `json:"reasoning"`
}

// ParseEvaluation extracts the first brace-delimited object from raw
// and validates it into an evaluation. Any missing or mistyped field
// yields nil. The score is always clamped into [1, 99].
func ParseEvaluation(raw string) *models.BangerEvaluation {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return nil
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil
	}
	if payload.Score == nil || payload.Breakdown == nil || payload.Reasoning == nil {
		return nil
	}

	return &models.BangerEvaluation{
		Score:     ClampScore(int(math.Round(*payload.Score))),
		Breakdown: *payload.Breakdown,
		Reasoning: *payload.Reasoning,
	}
}

// ClampScore forces a score into the store-wide [1, 99] range.
func ClampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 99 {
		return 99
	}
	return score
}
