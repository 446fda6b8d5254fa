// Package catalogue holds the curated opportunities served when the live
// provider returns nothing.
//
// The default set is embedded in the binary; a YAML file with the same shape
// can replace it at startup.
package catalogue

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"biocareer/opportunity-service/internal/model"
)

//go:embed opportunities.yaml
var embedded []byte

// Catalogue is an immutable, ordered set of curated opportunities.
type Catalogue struct {
	records []model.DetailedOpportunity
	byID    map[string]int
}

// Default returns the embedded catalogue.
func Default() *Catalogue {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded catalogue is invalid: %v", err))
	}
	return c
}

// Load returns the embedded catalogue when path is empty, otherwise the
// catalogue read from the YAML file at path.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalogue %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML list of detailed opportunities. Unknown keys, missing
// or duplicate ids and out-of-range scores are rejected.
func Parse(data []byte) (*Catalogue, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var records []model.DetailedOpportunity
	if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	byID := make(map[string]int, len(records))
	for i := range records {
		r := &records[i]
		if r.ID == "" {
			return nil, fmt.Errorf("record %d has no id", i)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate id %q", r.ID)
		}
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("record %q: %w", r.ID, err)
		}
		fillDefaults(r)
		byID[r.ID] = i
	}

	return &Catalogue{records: records, byID: byID}, nil
}

func validate(r *model.DetailedOpportunity) error {
	switch r.WorkMode {
	case model.WorkModeOnsite, model.WorkModeHybrid, model.WorkModeRemote:
	default:
		return fmt.Errorf("unknown workMode %q", r.WorkMode)
	}
	scores := []int{r.MatchScore, r.MatchBreakdown.Skills, r.MatchBreakdown.Experience, r.MatchBreakdown.Education}
	for _, s := range scores {
		if s < 0 || s > 100 {
			return fmt.Errorf("score %d outside [0,100]", s)
		}
	}
	return nil
}

func fillDefaults(r *model.DetailedOpportunity) {
	r.Source = model.SourceCatalogue
	if r.Industries == nil {
		r.Industries = []string{}
	}
	if r.Pros == nil {
		r.Pros = []string{}
	}
	if r.Cons == nil {
		r.Cons = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// Len returns the number of records.
func (c *Catalogue) Len() int { return len(c.records) }

// All returns the catalogue as list records, in catalogue order. Each call
// returns fresh copies so callers may not alter the catalogue.
func (c *Catalogue) All() []model.Opportunity {
	out := make([]model.Opportunity, len(c.records))
	for i := range c.records {
		out[i] = cloneOpportunity(c.records[i].Opportunity)
	}
	return out
}

// Find returns the detail record with the given id.
func (c *Catalogue) Find(id string) (model.DetailedOpportunity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.DetailedOpportunity{}, false
	}
	r := c.records[i]
	r.Opportunity = cloneOpportunity(r.Opportunity)
	r.MatchReasons = slices.Clone(r.MatchReasons)
	r.GapAlerts = slices.Clone(r.GapAlerts)
	r.GapCoaching = slices.Clone(r.GapCoaching)
	r.AnalysisStats = slices.Clone(r.AnalysisStats)
	r.KeyDuties = slices.Clone(r.KeyDuties)
	return r, true
}

func cloneOpportunity(o model.Opportunity) model.Opportunity {
	o.Industries = slices.Clone(o.Industries)
	o.Pros = slices.Clone(o.Pros)
	o.Cons = slices.Clone(o.Cons)
	o.MissingSkills = slices.Clone(o.MissingSkills)
	o.Tags = slices.Clone(o.Tags)
	return o
}
