// Package profile serves the candidate profile summary: headline metrics,
// attribute coverage, search preferences and suggested next actions.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var embedded []byte

// AttributeStatus is how far the candidate meets an attribute.
type AttributeStatus string

const (
	StatusMet     AttributeStatus = "met"
	StatusPartial AttributeStatus = "partial"
	StatusMissing AttributeStatus = "missing"
)

var categories = map[string]bool{
	"Qualifications": true,
	"Techniques":     true,
	"Regulatory":     true,
	"Soft Skills":    true,
}

type Metric struct {
	Label   string `json:"label" yaml:"label"`
	Value   string `json:"value" yaml:"value"`
	Caption string `json:"caption" yaml:"caption"`
}

type Attribute struct {
	ID       string          `json:"id" yaml:"id"`
	Label    string          `json:"label" yaml:"label"`
	Category string          `json:"category" yaml:"category"`
	Status   AttributeStatus `json:"status" yaml:"status"`
	Note     string          `json:"note" yaml:"note"`
}

type Preference struct {
	Label  string   `json:"label" yaml:"label"`
	Values []string `json:"values" yaml:"values"`
}

type Action struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Profile is the document returned by GET /api/profile.
type Profile struct {
	Metrics     []Metric     `json:"metrics" yaml:"metrics"`
	Attributes  []Attribute  `json:"attributes" yaml:"attributes"`
	Preferences []Preference `json:"preferences" yaml:"preferences"`
	Actions     []Action     `json:"actions" yaml:"actions"`
}

// Default returns the embedded profile.
func Default() *Profile {
	p, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded profile is invalid: %v", err))
	}
	return p
}

// Load returns the embedded profile when path is empty, otherwise the
// profile read from the YAML file at path.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %q: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", path, err)
	}
	return p, nil
}

// Parse decodes a profile document. Unknown keys, duplicate attribute ids and
// unknown statuses or categories are rejected.
func Parse(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	p := &Profile{}
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[string]bool, len(p.Attributes))
	for i, a := range p.Attributes {
		if a.ID == "" {
			return nil, fmt.Errorf("attribute %d has no id", i)
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate attribute id %q", a.ID)
		}
		seen[a.ID] = true
		switch a.Status {
		case StatusMet, StatusPartial, StatusMissing:
		default:
			return nil, fmt.Errorf("attribute %q: unknown status %q", a.ID, a.Status)
		}
		if !categories[a.Category] {
			return nil, fmt.Errorf("attribute %q: unknown category %q", a.ID, a.Category)
		}
	}

	fillDefaults(p)
	return p, nil
}

// fillDefaults replaces nil slices so every list encodes as [] rather than null.
func fillDefaults(p *Profile) {
	if p.Metrics == nil {
		p.Metrics = []Metric{}
	}
	if p.Attributes == nil {
		p.Attributes = []Attribute{}
	}
	if p.Preferences == nil {
		p.Preferences = []Preference{}
	}
	for i := range p.Preferences {
		if p.Preferences[i].Values == nil {
			p.Preferences[i].Values = []string{}
		}
	}
	if p.Actions == nil {
		p.Actions = []Action{}
	}
}
