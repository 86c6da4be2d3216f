package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warna720/TDP003/audit"
	"github.com/warna720/TDP003/catalog"
	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/models"
	"github.com/warna720/TDP003/query"
)

type fakeLoader struct {
	projects []models.Project
	ok       bool
	sources  []string
	silenced []bool
}

func (f *fakeLoader) Load(ctx context.Context, source string) ([]models.Project, bool) {
	f.sources = append(f.sources, source)
	f.silenced = append(f.silenced, audit.Silenced(ctx))
	return f.projects, f.ok
}

type recorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *recorder) Record(op string, fields ...audit.Field) {
	parts := []string{op}
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, strings.Join(parts, ", "))
}

func sample() []models.Project {
	return []models.Project{
		{ID: 1, Name: "Alpha", StartDate: "2021-01-01", Techniques: []string{"go"}},
		{ID: 2, Name: "Beta", StartDate: "2022-01-01", Techniques: []string{"go", "rust"}},
	}
}

func newTestPortfolio(projects []models.Project, ok bool, opts ...Option) (*Portfolio, *fakeLoader, *recorder) {
	loader := &fakeLoader{projects: projects, ok: ok}
	rec := &recorder{}
	return NewPortfolio(loader, "data.json", rec, opts...), loader, rec
}

func TestSearch(t *testing.T) {
	p, loader, rec := newTestPortfolio(sample(), true)

	got, err := p.Search(context.Background(), query.Options{Techniques: []string{"rust"}, SearchText: "beta"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	assert.Equal(t, []string{"data.json"}, loader.sources)
	assert.Equal(t, []string{
		"search, source=data.json, sort_by=, sort_order=, techniques=[rust], search=beta, search_fields=none",
	}, rec.entries)
}

func TestSearchUnknownField(t *testing.T) {
	p, _, rec := newTestPortfolio(sample(), true)

	_, err := p.Search(context.Background(), query.Options{SortBy: "budget"})
	assert.ErrorIs(t, err, errs.ErrUnknownSortField)
	require.Len(t, rec.entries, 2)
	assert.Equal(t, `error, op=search, cause=unknown sort field: "budget"`, rec.entries[1])
}

func TestSearchSkipsUnknownSearchFields(t *testing.T) {
	p, _, rec := newTestPortfolio(sample(), true)

	got, err := p.Search(context.Background(), query.Options{SearchFields: []string{"bogus"}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Len(t, rec.entries, 1)
}

func TestOperationsWhenCatalogUnavailable(t *testing.T) {
	p, _, rec := newTestPortfolio(nil, false)
	ctx := context.Background()

	_, err := p.Search(ctx, query.DefaultOptions())
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	_, err = p.ListTechniques(ctx)
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	_, err = p.TechniqueStats(ctx)
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	_, err = p.Project(ctx, 1)
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	_, err = p.RandomProject(ctx)
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	_, err = p.Count(ctx)
	assert.ErrorIs(t, err, errs.ErrCatalogUnavailable)

	failures := 0
	for _, e := range rec.entries {
		if strings.HasPrefix(e, "error, op=") {
			assert.Contains(t, e, "cause=catalog unavailable")
			failures++
		}
	}
	assert.Equal(t, 6, failures)
}

func TestListTechniquesAndStats(t *testing.T) {
	p, _, rec := newTestPortfolio(sample(), true)
	ctx := context.Background()

	tags, err := p.ListTechniques(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, tags)

	stats, err := p.TechniqueStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]models.TechniqueUsage{
		"go":   {{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}},
		"rust": {{ID: 2, Name: "Beta"}},
	}, stats)

	assert.Equal(t, []string{
		"get_techniques, source=data.json",
		"get_technique_stats, source=data.json",
	}, rec.entries)
}

func TestProject(t *testing.T) {
	p, _, rec := newTestPortfolio(sample(), true)

	got, err := p.Project(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Beta", got.Name)

	_, err = p.Project(context.Background(), 42)
	assert.ErrorIs(t, err, errs.ErrProjectNotFound)

	assert.Equal(t, []string{
		"get_project, id=2, source=data.json",
		"get_project, id=42, source=data.json",
		"error, op=get_project, cause=project not found: id 42",
	}, rec.entries)
}

func TestRandomProject(t *testing.T) {
	p, _, rec := newTestPortfolio(sample(), true, WithRand(rand.New(rand.NewPCG(1, 2))))

	seen := make(map[int]bool)
	for i := 0; i < 50; i++ {
		got, err := p.RandomProject(context.Background())
		require.NoError(t, err)
		seen[got.ID] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true}, seen)
	assert.Len(t, rec.entries, 50)
	assert.True(t, strings.HasPrefix(rec.entries[0], "get_random_project, source=data.json, random_project_id="))
}

func TestRandomProjectIsReproducible(t *testing.T) {
	pick := func() []int {
		p, _, _ := newTestPortfolio(sample(), true, WithRand(rand.New(rand.NewPCG(7, 7))))
		var ids []int
		for i := 0; i < 10; i++ {
			got, err := p.RandomProject(context.Background())
			require.NoError(t, err)
			ids = append(ids, got.ID)
		}
		return ids
	}
	assert.Equal(t, pick(), pick())
}

func TestRandomProjectEmptyCatalog(t *testing.T) {
	p, _, rec := newTestPortfolio([]models.Project{}, true)

	_, err := p.RandomProject(context.Background())
	assert.ErrorIs(t, err, errs.ErrEmptyCatalog)
	assert.Equal(t, []string{
		"get_random_project, source=data.json, random_project_id=none",
		"error, op=get_random_project, cause=catalog is empty",
	}, rec.entries)
}

func TestCount(t *testing.T) {
	p, _, _ := newTestPortfolio(sample(), true)

	n, err := p.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, _, _ = newTestPortfolio([]models.Project{}, true)
	n, err = p.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProbe(t *testing.T) {
	p, loader, rec := newTestPortfolio(sample(), true)

	count, ok := p.Probe(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Empty(t, rec.entries)
	assert.Equal(t, []bool{true}, loader.silenced)

	p, _, rec = newTestPortfolio(nil, false)
	count, ok = p.Probe(context.Background())
	assert.False(t, ok)
	assert.Zero(t, count)
	assert.Empty(t, rec.entries)
}

func TestLoadPassesThrough(t *testing.T) {
	p, _, _ := newTestPortfolio(sample(), true)
	projects, ok := p.Load(context.Background())
	assert.True(t, ok)
	assert.Len(t, projects, 2)
	assert.Equal(t, "data.json", p.Source())
}

func TestNilSinkDiscards(t *testing.T) {
	p := NewPortfolio(&fakeLoader{projects: sample(), ok: true}, "data.json", nil)
	_, err := p.Count(context.Background())
	assert.NoError(t, err)
}

func TestCatalogImplementationsSatisfyLoader(t *testing.T) {
	var _ CatalogLoader = (*catalog.Loader)(nil)
	var _ CatalogLoader = (*catalog.Cache)(nil)
}
