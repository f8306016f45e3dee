package models

// Length buckets for a transcript.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// ContentProfile describes the traits of a transcript that matter for
// strategy selection. Derived per run, never persisted.
type ContentProfile struct {
	ContentTypes        []string `json:"content_types"`
	HasPersonalStories  bool     `json:"has_personal_stories"`
	HasActionableAdvice bool     `json:"has_actionable_advice"`
	HasResourceMentions bool     `json:"has_resource_mentions"`
	HasProjectContext   bool     `json:"has_project_context"`
	HasStrongOpinions   bool     `json:"has_strong_opinions"`
	Length              string   `json:"length"`
	CharacterCount      int      `json:"character_count"`
}

// HasContentType reports whether the profile carries the given tag.
func (p *ContentProfile) HasContentType(tag string) bool {
	for _, t := range p.ContentTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// LengthBucket maps a character count to its length bucket.
func LengthBucket(chars int) string {
	switch {
	case chars < 500:
		return LengthShort
	case chars > 1500:
		return LengthLong
	default:
		return LengthMedium
	}
}

// FallbackProfile is the conservative profile used when classification
// fails. It keeps general-purpose strategies applicable so a bad backend
// response never stalls generation.
func FallbackProfile(text string) *ContentProfile {
	return &ContentProfile{
		ContentTypes:        []string{"educational", "opinion"},
		HasActionableAdvice: true,
		HasStrongOpinions:   true,
		Length:              LengthBucket(len(text)),
		CharacterCount:      len(text),
	}
}
