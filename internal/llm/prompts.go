// Package llm implements the AI reviewer: prompt rendering, token-budget
// truncation, and parsing of the model's review output.
package llm

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/templates.yml
var promptsFS embed.FS

// promptPair is one system/user prompt template pair from templates.yml.
type promptPair struct {
	SystemPrompt string `yaml:"system_prompt"`
	UserPrompt   string `yaml:"user_prompt"`
}

// promptSet holds the prompt templates the reviewer renders per call.
type promptSet map[string]promptPair

// promptData carries the values substituted into a prompt template.
type promptData struct {
	Style   string
	Diffs   string
	Commits string
}

// loadPrompts parses the embedded prompt templates.
func loadPrompts() (promptSet, error) {
	raw, err := promptsFS.ReadFile("prompts/templates.yml")
	if err != nil {
		return nil, fmt.Errorf("read prompt templates: %w", err)
	}
	var set promptSet
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("parse prompt templates: %w", err)
	}
	return set, nil
}

// render executes the named prompt pair with the given data and returns the
// system and user messages.
func (s promptSet) render(key string, data promptData) (systemMsg, userMsg string, err error) {
	pair, ok := s[key]
	if !ok {
		return "", "", fmt.Errorf("unknown prompt key %q", key)
	}
	systemMsg, err = renderTemplate(key+"-system", pair.SystemPrompt, data)
	if err != nil {
		return "", "", err
	}
	userMsg, err = renderTemplate(key+"-user", pair.UserPrompt, data)
	if err != nil {
		return "", "", err
	}
	return systemMsg, userMsg, nil
}

func renderTemplate(name, text string, data promptData) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}
