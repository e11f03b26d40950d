// Package theme holds the broadcast personas: voice, prompt framing and
// visual style for each report flavor.
package theme

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var themesYAML []byte

// Theme describes one broadcast persona.
type Theme struct {
	ID         string `yaml:"id" json:"id"`
	Title      string `yaml:"title" json:"title"`
	Voice      string `yaml:"voice" json:"voice"`
	Prompt     string `yaml:"prompt" json:"-"`
	ImageStyle string `yaml:"image_style" json:"-"`
	Palette    string `yaml:"palette" json:"palette"`
}

// PromptData carries the observation fields a prompt template can reference.
type PromptData struct {
	Location     string
	Terrain      string
	TemperatureC float64
	WindSpeedKmh float64
	Condition    string
}

// Registry holds the parsed themes and their compiled prompt templates.
type Registry struct {
	themes    map[string]Theme
	templates map[string]*template.Template
	order     []string
	defaultID string
}

// NewRegistry parses the embedded theme definitions.
func NewRegistry(defaultID string) (*Registry, error) {
	var defs []Theme
	if err := yaml.Unmarshal(themesYAML, &defs); err != nil {
		return nil, fmt.Errorf("parsing themes: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no themes defined")
	}

	r := &Registry{
		themes:    make(map[string]Theme, len(defs)),
		templates: make(map[string]*template.Template, len(defs)),
		defaultID: defaultID,
	}
	for _, def := range defs {
		tmpl, err := template.New(def.ID).Parse(def.Prompt)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt for theme %q: %w", def.ID, err)
		}
		r.themes[def.ID] = def
		r.templates[def.ID] = tmpl
		r.order = append(r.order, def.ID)
	}

	if _, ok := r.themes[defaultID]; !ok {
		r.defaultID = r.order[0]
	}
	return r, nil
}

// Get returns the named theme, falling back to the default for unknown IDs.
func (r *Registry) Get(id string) Theme {
	if t, ok := r.themes[id]; ok {
		return t
	}
	return r.themes[r.defaultID]
}

// Default returns the default theme.
func (r *Registry) Default() Theme {
	return r.themes[r.defaultID]
}

// List returns all themes in a stable order, default first.
func (r *Registry) List() []Theme {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	sort.SliceStable(ids, func(i, j int) bool {
		if ids[i] == r.defaultID {
			return true
		}
		if ids[j] == r.defaultID {
			return false
		}
		return false
	})

	out := make([]Theme, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.themes[id])
	}
	return out
}

// RenderPrompt executes the theme's prompt template with the observation.
func (r *Registry) RenderPrompt(id string, data PromptData) (string, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		tmpl = r.templates[r.defaultID]
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return buf.String(), nil
}

// ImagePrompt combines the theme's visual style with the observation into
// a scene description for the image model.
func (r *Registry) ImagePrompt(id string, data PromptData) string {
	t := r.Get(id)
	return fmt.Sprintf("%s. A wide establishing shot of %s near %s, %s, %.0f degrees celsius.",
		t.ImageStyle, data.Terrain, data.Location, data.Condition, data.TemperatureC)
}
