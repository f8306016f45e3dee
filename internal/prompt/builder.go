package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Templates holds the on-disk prompt blobs the builder composes.
// All of them are required; a missing file is a configuration error.
type Templates struct {
	System       string
	StyleGuide   string
	Instructions string
	Evaluation   string
}

// LoadTemplates reads the prompt templates from dir.
func LoadTemplates(dir string) (*Templates, error) {
	read := func(name string) (string, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %w", name, err)
		}
		return string(data), nil
	}

	t := &Templates{}
	var err error
	if t.System, err = read("system_prompt.md"); err != nil {
		return nil, err
	}
	if t.StyleGuide, err = read("style_guide.md"); err != nil {
		return nil, err
	}
	if t.Instructions, err = read("work_instructions.md"); err != nil {
		return nil, err
	}
	if t.Evaluation, err = read("evaluation_prompt.md"); err != nil {
		return nil, err
	}
	return t, nil
}

// Build composes the generation prompt for one strategy. Pure; no
// validation of what the backend later returns.
func Build(t *Templates, strategyPrompt, transcript string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(t.System))
	b.WriteString("\n\n## Style guide\n\n")
	b.WriteString(strings.TrimSpace(t.StyleGuide))
	b.WriteString("\n\n## Instructions\n\n")
	b.WriteString(strings.TrimSpace(t.Instructions))
	if strategyPrompt != "" {
		b.WriteString("\n\n## Strategy\n\n")
		b.WriteString(strings.TrimSpace(strategyPrompt))
	}
	b.WriteString("\n\n## Transcript\n\n")
	b.WriteString(strings.TrimSpace(transcript))
	return b.String()
}

// BuildBatch is the legacy form without a strategy, used when the
// catalog is empty.
func BuildBatch(t *Templates, transcript string) string {
	return Build(t, "", transcript)
}

// BuildEvaluate composes the evaluation prompt for one post. The
// template may reference the post with {{post}}; otherwise the post is
// appended under its own heading.
func BuildEvaluate(template, postContent string) string {
	if strings.Contains(template, "{{post}}") {
		return strings.ReplaceAll(template, "{{post}}", postContent)
	}
	return strings.TrimSpace(template) + "\n\n## Post\n\n" + strings.TrimSpace(postContent)
}
