package agents

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers every prompt with a canned response or error.
type fakeBackend struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeBackend) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func validEvaluation(score int) string {
	return fmt.Sprintf(`{
		"score": %d,
		"breakdown": {"hook": 7, "insight": 6, "authenticity": 8, "specificity": 5, "brevity": 7, "relatability": 6, "shareability": 5},
		"reasoning": "solid hook, weak ending"
	}`, score)
}

func TestParseEvaluation(t *testing.T) {
	eval := ParseEvaluation("Sure! Here is my verdict:\n" + validEvaluation(62) + "\nLet me know if you need more.")
	require.NotNil(t, eval)
	assert.Equal(t, 62, eval.Score)
	assert.Equal(t, 7, eval.Breakdown.Hook)
	assert.Equal(t, 5, eval.Breakdown.Shareability)
	assert.Equal(t, "solid hook, weak ending", eval.Reasoning)
}

func TestParseEvaluationClampsScore(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{150, 99},
		{100, 99},
		{99, 99},
		{1, 1},
		{0, 1},
		{-20, 1},
	}
	for _, tt := range tests {
		eval := ParseEvaluation(validEvaluation(tt.raw))
		require.NotNil(t, eval, "score %d", tt.raw)
		assert.Equal(t, tt.want, eval.Score, "score %d", tt.raw)
	}
}

func TestParseEvaluationMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no object", "the post is great, 90/100"},
		{"not json", "{score: ninety}"},
		{"missing score", `{"breakdown": {}, "reasoning": "ok"}`},
		{"missing breakdown", `{"score": 50, "reasoning": "ok"}`},
		{"missing reasoning", `{"score": 50, "breakdown": {}}`},
		{"score not numeric", `{"score": "high", "breakdown": {}, "reasoning": "ok"}`},
		{"breakdown not object", `{"score": 50, "breakdown": 7, "reasoning": "ok"}`},
		{"reasoning not text", `{"score": 50, "breakdown": {}, "reasoning": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseEvaluation(tt.raw))
		})
	}
}

func TestEvaluateBackendError(t *testing.T) {
	backend := &fakeBackend{err: fmt.Errorf("connection refused")}
	e := NewEvaluator(backend, "rate this: {{post}}")

	eval, err := e.Evaluate(context.Background(), "some post")
	require.Error(t, err)
	assert.Nil(t, eval)
}

func TestEvaluateUnparseableIsNotAnError(t *testing.T) {
	backend := &fakeBackend{response: "I refuse to answer in JSON."}
	e := NewEvaluator(backend, "rate this: {{post}}")

	eval, err := e.Evaluate(context.Background(), "some post")
	require.NoError(t, err)
	assert.Nil(t, eval)
}

func TestEvaluateBuildsPromptWithPost(t *testing.T) {
	backend := &fakeBackend{response: validEvaluation(40)}
	e := NewEvaluator(backend, "rate this: {{post}}")

	_, err := e.Evaluate(context.Background(), "my brilliant post")
	require.NoError(t, err)
	require.Len(t, backend.prompts, 1)
	assert.Contains(t, backend.prompts[0], "my brilliant post")
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1, ClampScore(-5))
	assert.Equal(t, 1, ClampScore(1))
	assert.Equal(t, 50, ClampScore(50))
	assert.Equal(t, 99, ClampScore(99))
	assert.Equal(t, 99, ClampScore(200))
}
