package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"postforge/internal/models"
)

// Classifier derives a content profile from a raw transcript by asking
// the generation backend for a structured analysis.
type Classifier struct {
	backend Backend
}

func NewClassifier(backend Backend) *Classifier {
	return &Classifier{backend: backend}
}

const classifyPrompt = `You are analyzing a transcript to profile its content.

Analyze the transcript below and respond with ONLY a JSON object in this exact shape:
{
  "content_types": ["educational", "opinion", "story", "resource", "project"],
  "has_personal_stories": true,
  "has_actionable_advice": true,
  "has_resource_mentions": false,
  "has_project_context": false,
  "has_strong_opinions": true,
  "length": "short|medium|long"
}

content_types must only contain tags that genuinely describe the transcript.
length is "short" under 500 characters, "long" over 1500, otherwise "medium".

Transcript:
%s`

// Classify profiles a transcript. It never fails: any backend error or
// malformed response falls back to a conservative local profile so the
// pipeline keeps moving.
func (c *Classifier) Classify(ctx context.Context, text string) *models.ContentProfile {
	response, err := c.backend.Generate(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		log.Printf("⚠️ Classification call failed, using fallback profile: %v", err)
		return models.FallbackProfile(text)
	}

	profile, err := parseProfile(response, len(text))
	if err != nil {
		log.Printf("⚠️ Unusable classification response, using fallback profile: %v", err)
		return models.FallbackProfile(text)
	}
	return profile
}

// profilePayload decodes with pointer fields so a missing or mistyped
// field is detectable, not silently zero.
type profilePayload struct {
	ContentTypes        *[]string `json:"content_types"`
	HasPersonalStories  *bool     `json:"has_personal_stories"`
	HasActionableAdvice *bool     `json:"has_actionable_advice"`
	HasResourceMentions *bool     `json:"has_resource_mentions"`
	HasProjectContext   *bool     `json:"has_project_context"`
	HasStrongOpinions   *bool     `json:"has_strong_opinions"`
	Length              *string   `json:"length"`
}

func parseProfile(response string, characterCount int) (*models.ContentProfile, error) {
	obj, ok := firstJSONObject(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var payload profilePayload
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}

	switch {
	case payload.ContentTypes == nil:
		return nil, fmt.Errorf("missing content_types")
	case payload.HasPersonalStories == nil:
		return nil, fmt.Errorf("missing has_personal_stories")
	case payload.HasActionableAdvice == nil:
		return nil, fmt.Errorf("missing has_actionable_advice")
	case payload.HasResourceMentions == nil:
		return nil, fmt.Errorf("missing has_resource_mentions")
	case payload.HasProjectContext == nil:
		return nil, fmt.Errorf("missing has_project_context")
	case payload.HasStrongOpinions == nil:
		return nil, fmt.Errorf("missing has_strong_opinions")
	case payload.Length == nil:
		return nil, fmt.Errorf("missing length")
	}

	length := *payload.Length
	if length != models.LengthShort && length != models.LengthMedium && length != models.LengthLong {
		return nil, fmt.Errorf("invalid length %q", length)
	}

	return &models.ContentProfile{
		ContentTypes:        *payload.ContentTypes,
		HasPersonalStories:  *payload.HasPersonalStories,
		HasActionableAdvice: *payload.HasActionableAdvice,
		HasResourceMentions: *payload.HasResourceMentions,
		HasProjectContext:   *payload.HasProjectContext,
		HasStrongOpinions:   *payload.HasStrongOpinions,
		Length:              length,
		CharacterCount:      characterCount,
	}, nil
}
