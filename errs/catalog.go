package errs

import (
	"errors"
	"fmt"
)

// Catalog load failure kinds. A LoadError always carries exactly one of these.
var (
	ErrSourceNotFound    = errors.New("catalog source not found")
	ErrUnreadableSource  = errors.New("catalog source unreadable")
	ErrMalformedCatalog  = errors.New("malformed catalog")
	ErrSchemaViolation   = errors.New("catalog schema violation")
	ErrUnsupportedSource = errors.New("unsupported catalog source")
)

// Query & lookup errors
var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProjectNotFound    = errors.New("project not found")
	ErrEmptyCatalog       = errors.New("catalog is empty")
	ErrUnknownSortField   = errors.New("unknown sort field")
)

// LoadError is returned by the detailed catalog loader. Kind is one of the
// load failure sentinels above; Err is the underlying cause, if any.
type LoadError struct {
	Kind   error
	Source string
	Err    error
}

func NewLoadError(kind error, source string, cause error) *LoadError {
	return &LoadError{Kind: kind, Source: source, Err: cause}
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %s", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// CatalogUnavailable is ErrCatalogUnavailable naming the source.
func CatalogUnavailable(source string) error {
	return fmt.Errorf("%w: %s", ErrCatalogUnavailable, source)
}

func IsSourceNotFound(err error) bool {
	return errors.Is(err, ErrSourceNotFound)
}

func IsMalformedCatalog(err error) bool {
	return errors.Is(err, ErrMalformedCatalog)
}

func IsSchemaViolation(err error) bool {
	return errors.Is(err, ErrSchemaViolation)
}

// IsCatalogDefect reports whether a load failed on the catalog's content
// rather than on reaching it.
func IsCatalogDefect(err error) bool {
	return IsMalformedCatalog(err) || IsSchemaViolation(err)
}
