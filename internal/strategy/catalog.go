package strategy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"postforge/internal/models"
)

// Strategy categories. The catalog file may only use these.
const (
	CategoryPersonal     = "personal"
	CategoryEducational  = "educational"
	CategoryOpinion      = "opinion"
	CategoryStorytelling = "storytelling"
	CategoryResource     = "resource"
	CategoryEngagement   = "engagement"
)

var knownCategories = map[string]bool{
	CategoryPersonal:     true,
	CategoryEducational:  true,
	CategoryOpinion:      true,
	CategoryStorytelling: true,
	CategoryResource:     true,
	CategoryEngagement:   true,
}

// Requirements is a strategy's applicability predicate over a content
// profile. The zero value applies to anything.
type Requirements struct {
	PersonalStories  bool     `yaml:"personal_stories"`
	ActionableAdvice bool     `yaml:"actionable_advice"`
	ResourceMentions bool     `yaml:"resource_mentions"`
	StrongOpinions   bool     `yaml:"strong_opinions"`
	ProjectContext   bool     `yaml:"project_context"`
	ContentTypes     []string `yaml:"content_types"`
}

// Strategy is one named generation approach from the catalog.
type Strategy struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Prompt         string       `yaml:"prompt"`
	Category       string       `yaml:"category"`
	ThreadFriendly bool         `yaml:"thread_friendly"`
	Requires       Requirements `yaml:"requires"`
}

// AppliesTo reports whether the strategy's requirements are satisfied
// by the profile. ContentTypes is an any-of match.
func (s *Strategy) AppliesTo(profile *models.ContentProfile) bool {
	r := s.Requires
	if r.PersonalStories && !profile.HasPersonalStories {
		return false
	}
	if r.ActionableAdvice && !profile.HasActionableAdvice {
		return false
	}
	if r.ResourceMentions && !profile.HasResourceMentions {
		return false
	}
	if r.StrongOpinions && !profile.HasStrongOpinions {
		return false
	}
	if r.ProjectContext && !profile.HasProjectContext {
		return false
	}
	if len(r.ContentTypes) > 0 {
		matched := false
		for _, t := range r.ContentTypes {
			if profile.HasContentType(t) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Ref returns the metadata stamp stored on posts this strategy produces.
func (s *Strategy) Ref() *models.StrategyRef {
	return &models.StrategyRef{ID: s.ID, Name: s.Name, Category: s.Category}
}

// Catalog is the ordered, user-editable set of strategies. Immutable
// during a run; catalog order is the stable tie-break everywhere.
type Catalog struct {
	strategies []Strategy
}

type catalogFile struct {
	Strategies []Strategy `yaml:"strategies"`
}

// LoadCatalog reads the strategy catalog from a YAML file. A missing
// file yields an empty catalog (legacy batch generation mode), while a
// malformed file is a configuration error.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to read strategy catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse strategy catalog: %w", err)
	}

	seen := make(map[string]bool)
	for i, s := range file.Strategies {
		if s.ID == "" {
			return nil, fmt.Errorf("strategy %d has no id", i+1)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("duplicate strategy id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Prompt == "" {
			return nil, fmt.Errorf("strategy %q has no prompt", s.ID)
		}
		if !knownCategories[s.Category] {
			return nil, fmt.Errorf("strategy %q has unknown category %q", s.ID, s.Category)
		}
	}
	return &Catalog{strategies: file.Strategies}, nil
}

// Empty reports whether the catalog has no strategies.
func (c *Catalog) Empty() bool {
	return len(c.strategies) == 0
}

// All returns the strategies in catalog order.
func (c *Catalog) All() []Strategy {
	return c.strategies
}

// ByIDs resolves an explicit list of strategy IDs, preserving the
// requested order. Any unknown ID is an error.
func (c *Catalog) ByIDs(ids []string) ([]Strategy, error) {
	byID := make(map[string]Strategy, len(c.strategies))
	for _, s := range c.strategies {
		byID[s.ID] = s
	}

	out := make([]Strategy, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("strategy not found in catalog: %q", id)
		}
		out = append(out, s)
	}
	return out, nil
}
