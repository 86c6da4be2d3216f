package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/warna720/TDP003/models"
)

// Cache keeps the last good load of one catalog file and drops it as soon
// as the file changes on disk. Concurrent misses share a single load.
type Cache struct {
	loader projectLoader
	source string
	path   string

	watcher *fsnotify.Watcher
	group   singleflight.Group
	done    chan struct{}
	wg      sync.WaitGroup
	logger  zerolog.Logger

	mu         sync.RWMutex
	projects   []models.Project
	valid      bool
	generation uint64
}

type projectLoader interface {
	Load(ctx context.Context, source string) ([]models.Project, bool)
}

type loadResult struct {
	projects []models.Project
	ok       bool
}

// NewCache watches source, which must be a local file.
func NewCache(loader *Loader, source string) (*Cache, error) {
	return newCache(loader, source)
}

func newCache(loader projectLoader, source string) (*Cache, error) {
	if IsRemote(source) {
		return nil, fmt.Errorf("cache %s: only local catalog files can be watched", source)
	}

	path, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", source, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cache %s: %w", source, err)
	}
	// Watch the directory: editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("cache %s: watch: %w", source, err)
	}

	c := &Cache{
		loader:  loader,
		source:  source,
		path:    path,
		watcher: watcher,
		done:    make(chan struct{}),
		logger:  log.With().Str("component", "catalog_cache").Str("source", source).Logger(),
	}
	c.wg.Add(1)
	go c.watch()
	return c, nil
}

// Load serves the cached catalog for the watched source. Other sources go
// straight to the loader.
func (c *Cache) Load(ctx context.Context, source string) ([]models.Project, bool) {
	if source != c.source {
		return c.loader.Load(ctx, source)
	}

	c.mu.RLock()
	if c.valid {
		projects := c.projects
		c.mu.RUnlock()
		return projects, true
	}
	generation := c.generation
	c.mu.RUnlock()

	// The shared load must outlive any one caller: a cancelled request
	// gives up waiting, the others still get the catalog.
	flight := c.group.DoChan(c.source, func() (any, error) {
		projects, ok := c.loader.Load(context.WithoutCancel(ctx), c.source)
		if ok {
			c.mu.Lock()
			// A change that landed during the load makes this result stale.
			if c.generation == generation {
				c.projects = projects
				c.valid = true
			}
			c.mu.Unlock()
		}
		return loadResult{projects: projects, ok: ok}, nil
	})
	select {
	case r := <-flight:
		res := r.Val.(loadResult)
		return res.projects, res.ok
	case <-ctx.Done():
		return nil, false
	}
}

// Invalidate drops the cached catalog.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = nil
	c.valid = false
	c.generation++
}

// Cached reports whether a catalog is currently held.
func (c *Cache) Cached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

// Close stops watching. The cache keeps answering, without invalidation.
func (c *Cache) Close() error {
	close(c.done)
	err := c.watcher.Close()
	c.wg.Wait()
	return err
}

func (c *Cache) watch() {
	defer c.wg.Done()
	const changed = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != c.path || event.Op&changed == 0 {
				continue
			}
			c.logger.Debug().Str("op", event.Op.String()).Msg("catalog changed, dropping cache")
			c.Invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn().Err(err).Msg("catalog watcher error")
			c.Invalidate()
		}
	}
}
