// Package services holds the portfolio operations the HTTP and CLI layers
// call. Each operation loads the catalog, records an audit entry and hands
// the loaded projects to the query engine.
package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/audit"
	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/models"
	"github.com/warna720/TDP003/query"
)

// CatalogLoader produces the projects of a catalog source. Both
// *catalog.Loader and *catalog.Cache satisfy it.
type CatalogLoader interface {
	Load(ctx context.Context, source string) ([]models.Project, bool)
}

// Portfolio answers queries against one catalog source.
type Portfolio struct {
	loader CatalogLoader
	source string
	sink   audit.Recorder
	logger zerolog.Logger

	randMu sync.Mutex
	rand   *rand.Rand
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithRand sets the random source RandomProject picks from.
func WithRand(r *rand.Rand) Option {
	return func(p *Portfolio) {
		p.rand = r
	}
}

// NewPortfolio creates a Portfolio reading source through loader and
// auditing to sink. A nil sink discards audit entries.
func NewPortfolio(loader CatalogLoader, source string, sink audit.Recorder, opts ...Option) *Portfolio {
	if sink == nil {
		sink = audit.Nop()
	}
	p := &Portfolio{
		loader: loader,
		source: source,
		sink:   sink,
		logger: log.With().Str("component", "portfolio").Str("source", source).Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Source returns the catalog source the portfolio reads.
func (p *Portfolio) Source() string {
	return p.source
}

// Load returns every project in catalog order. ok is false when the
// catalog could not be loaded.
func (p *Portfolio) Load(ctx context.Context) ([]models.Project, bool) {
	return p.loader.Load(ctx, p.source)
}

// Search runs a query against a fresh load of the catalog.
//
// Parameters:
//   - opts: sort, filter and text-match options. A nil SearchFields searches
//     every field; an empty non-nil one matches nothing.
//
// Returns:
//   - the matching projects, one per id, sorted
//   - errs.ErrCatalogUnavailable when the catalog could not be loaded, or
//     errs.ErrUnknownSortField for a bad SortBy
func (p *Portfolio) Search(ctx context.Context, opts query.Options) ([]models.Project, error) {
	const op = "search"
	p.sink.Record(op,
		audit.F("source", p.source),
		audit.F("sort_by", opts.SortBy),
		audit.F("sort_order", opts.SortOrder),
		audit.F("techniques", opts.Techniques),
		audit.F("search", opts.SearchText),
		audit.F("search_fields", opts.SearchFields),
	)

	projects, err := p.load(ctx, op)
	if err != nil {
		return nil, err
	}
	result, err := query.Search(projects, opts)
	if err != nil {
		return nil, p.fail(op, err)
	}
	return result, nil
}

// ListTechniques returns every distinct technique tag, ascending.
func (p *Portfolio) ListTechniques(ctx context.Context) ([]string, error) {
	const op = "get_techniques"
	p.sink.Record(op, audit.F("source", p.source))

	projects, err := p.load(ctx, op)
	if err != nil {
		return nil, err
	}
	return query.ListTechniques(projects), nil
}

// TechniqueStats maps each technique tag to the projects using it.
func (p *Portfolio) TechniqueStats(ctx context.Context) (map[string][]models.TechniqueUsage, error) {
	const op = "get_technique_stats"
	p.sink.Record(op, audit.F("source", p.source))

	projects, err := p.load(ctx, op)
	if err != nil {
		return nil, err
	}
	return query.TechniqueStats(projects), nil
}

// Project returns the project with the given id.
func (p *Portfolio) Project(ctx context.Context, id int) (models.Project, error) {
	const op = "get_project"
	p.sink.Record(op, audit.F("id", id), audit.F("source", p.source))

	projects, err := p.load(ctx, op)
	if err != nil {
		return models.Project{}, err
	}
	for _, project := range projects {
		if project.ID == id {
			return project, nil
		}
	}
	return models.Project{}, p.fail(op, fmt.Errorf("%w: id %d", errs.ErrProjectNotFound, id))
}

// RandomProject returns a uniformly chosen project.
func (p *Portfolio) RandomProject(ctx context.Context) (models.Project, error) {
	const op = "get_random_project"

	projects, err := p.load(ctx, op)
	if err != nil {
		p.sink.Record(op, audit.F("source", p.source), audit.F("random_project_id", nil))
		return models.Project{}, err
	}
	if len(projects) == 0 {
		p.sink.Record(op, audit.F("source", p.source), audit.F("random_project_id", nil))
		return models.Project{}, p.fail(op, errs.ErrEmptyCatalog)
	}

	project := projects[p.intN(len(projects))]
	p.sink.Record(op, audit.F("source", p.source), audit.F("random_project_id", project.ID))
	return project, nil
}

// Count returns the number of projects in the catalog.
func (p *Portfolio) Count(ctx context.Context) (int, error) {
	const op = "get_project_count"
	p.sink.Record(op, audit.F("source", p.source))

	projects, err := p.load(ctx, op)
	if err != nil {
		return 0, err
	}
	return len(projects), nil
}

// Probe counts the catalog's projects without writing to the audit log.
// ok is false when the catalog cannot be loaded.
func (p *Portfolio) Probe(ctx context.Context) (count int, ok bool) {
	projects, ok := p.loader.Load(audit.Silence(ctx), p.source)
	return len(projects), ok
}

func (p *Portfolio) load(ctx context.Context, op string) ([]models.Project, error) {
	projects, ok := p.loader.Load(ctx, p.source)
	if !ok {
		return nil, p.fail(op, errs.CatalogUnavailable(p.source))
	}
	return projects, nil
}

// fail audits err against op and returns it unchanged.
func (p *Portfolio) fail(op string, err error) error {
	p.sink.Record("error", audit.F("op", op), audit.F("cause", err))
	p.logger.Debug().Err(err).Str("op", op).Msg("portfolio operation failed")
	return err
}

func (p *Portfolio) intN(n int) int {
	if p.rand == nil {
		return rand.IntN(n)
	}
	p.randMu.Lock()
	defer p.randMu.Unlock()
	return p.rand.IntN(n)
}
