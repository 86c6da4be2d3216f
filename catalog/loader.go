// Package catalog loads the project catalog from its backing store.
//
// A load reads the whole catalog, validates it against the project schema
// and normalizes it: techniques are lowercased and deduplicated, relative
// image paths are rewritten under the site's asset root. Any failure makes
// the load absent; LoadDetailed exposes the tagged cause for callers and
// tests that need it.
package catalog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warna720/TDP003/audit"
	"github.com/warna720/TDP003/errs"
	"github.com/warna720/TDP003/models"
	"github.com/warna720/TDP003/normalize"
)

// DefaultAssetRoot is where relative image paths are served from.
const DefaultAssetRoot = "/static/images/"

var urlSchemes = []string{"http://", "https://"}

type Loader struct {
	sink      audit.Recorder
	assetRoot string
	objects   ObjectGetter
	logger    zerolog.Logger
}

type Option func(*Loader)

func WithAssetRoot(root string) Option {
	return func(l *Loader) {
		if !strings.HasSuffix(root, "/") {
			root += "/"
		}
		l.assetRoot = root
	}
}

// WithObjectGetter enables s3://bucket/key sources.
func WithObjectGetter(objects ObjectGetter) Option {
	return func(l *Loader) {
		l.objects = objects
	}
}

func NewLoader(sink audit.Recorder, opts ...Option) *Loader {
	if sink == nil {
		sink = audit.Nop()
	}
	l := &Loader{
		sink:      sink,
		assetRoot: DefaultAssetRoot,
		logger:    log.With().Str("component", "catalog").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the normalized catalog and true, or nil and false when the
// catalog is unavailable for any reason. A present catalog may be empty.
func (l *Loader) Load(ctx context.Context, source string) ([]models.Project, bool) {
	projects, err := l.LoadDetailed(ctx, source)
	if err != nil {
		level := zerolog.WarnLevel
		if errs.IsCatalogDefect(err) {
			level = zerolog.ErrorLevel
		}
		l.logger.WithLevel(level).Err(err).Str("source", source).Msg("catalog unavailable")
		return nil, false
	}
	return projects, true
}

// LoadDetailed is Load with the failure kept. Errors are *errs.LoadError.
func (l *Loader) LoadDetailed(ctx context.Context, source string) ([]models.Project, error) {
	if !audit.Silenced(ctx) {
		l.sink.Record("load", audit.F("source", source))
	}

	data, err := l.read(ctx, source)
	if err != nil {
		return nil, err
	}

	doc, err := parseDocument(formatOf(source), data)
	if err != nil {
		return nil, errs.NewLoadError(errs.ErrMalformedCatalog, source, err)
	}

	projects, err := toProjects(doc)
	if err != nil {
		return nil, errs.NewLoadError(errs.ErrSchemaViolation, source, err)
	}

	for i := range projects {
		l.normalizeProject(&projects[i])
	}

	l.logger.Debug().Str("source", source).Int("projects", len(projects)).Msg("catalog loaded")
	return projects, nil
}

func (l *Loader) normalizeProject(p *models.Project) {
	p.Techniques = uniqueLower(p.Techniques)
	p.SmallImagePath = l.assetPath(p.SmallImagePath)
	p.BigImagePath = l.assetPath(p.BigImagePath)
}

// uniqueLower lowercases tags and drops case variants, keeping the first
// occurrence of each.
func uniqueLower(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		lower := normalize.Lower(tag)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, lower)
	}
	return out
}

func (l *Loader) assetPath(v string) string {
	if isExternalURL(v) {
		return v
	}
	return l.assetRoot + strings.TrimPrefix(v, "/")
}

func isExternalURL(v string) bool {
	lower := strings.ToLower(v)
	for _, scheme := range urlSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}
