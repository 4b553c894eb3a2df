package importers

import (
	"fmt"
	"time"

	"github.com/mrlokans/kindle-digest/internal/entities"
	"github.com/mrlokans/kindle-digest/internal/kindle"
)

// Store is the persistence boundary the pipeline merges into. Load of an
// absent store yields an empty sequence; Save always rewrites the full
// sequence.
type Store interface {
	Load() ([]entities.Highlight, error)
	Save(highlights []entities.Highlight) error
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Added   int
	Total   int
	Parsed  int
	Skipped kindle.Stats
}

// Pipeline handles the common import workflow:
// decode → parse → merge against the store → save.
//
// The merged sequence is computed fully in memory and written in a single
// Save, so a failing run never leaves a partially updated store behind.
type Pipeline struct {
	parser *kindle.Parser
	store  Store
	now    func() time.Time
}

// NewPipeline creates an import pipeline over the given store.
func NewPipeline(store Store) *Pipeline {
	return &Pipeline{
		parser: kindle.NewParser(),
		store:  store,
		now:    time.Now,
	}
}

// WithClock substitutes the merge timestamp source. Tests use this to pin
// AddedAt values.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Import parses decoded clippings content and merges it into the store.
func (p *Pipeline) Import(content string) (ImportResult, error) {
	highlights, stats := p.parser.Parse(content)
	return p.ImportParsed(highlights, stats)
}

// ImportParsed merges already-parsed highlights into the store. Callers that
// need the parse statistics up front (dry runs, verbose reports) parse
// themselves and hand the result over.
func (p *Pipeline) ImportParsed(highlights []entities.Highlight, stats kindle.Stats) (ImportResult, error) {
	existing, err := p.store.Load()
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to load highlight store: %w", err)
	}

	merged, added := Merge(existing, highlights, p.now)

	if err := p.store.Save(merged); err != nil {
		return ImportResult{}, fmt.Errorf("failed to save highlight store: %w", err)
	}

	return ImportResult{
		Added:   added,
		Total:   len(merged),
		Parsed:  len(highlights),
		Skipped: stats,
	}, nil
}
