package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warna720/TDP003/models"
)

// gatedLoader blocks every load until release is closed.
type gatedLoader struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLoader) Load(ctx context.Context, _ string) ([]models.Project, bool) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	<-g.release
	if ctx.Err() != nil {
		return nil, false
	}
	return []models.Project{{ID: 1, Name: "Alpha"}}, true
}

func countLoads(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), " load, source=")
}

func TestCacheServesRepeatedLoadsFromMemory(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, buf := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	for i := 0; i < 3; i++ {
		projects, ok := cache.Load(context.Background(), path)
		require.True(t, ok)
		assert.Len(t, projects, 2)
	}
	assert.True(t, cache.Cached())
	assert.Equal(t, 1, countLoads(buf))
}

func TestCacheDropsOnWrite(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, _ := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	projects, ok := cache.Load(context.Background(), path)
	require.True(t, ok)
	require.Len(t, projects, 2)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 3}]`), 0o644))
	require.Eventually(t, func() bool { return !cache.Cached() }, 2*time.Second, 10*time.Millisecond)

	// The rewritten file is not a valid catalog, so the load is absent and
	// nothing gets cached.
	_, ok = cache.Load(context.Background(), path)
	assert.False(t, ok)
	assert.False(t, cache.Cached())

	require.NoError(t, os.WriteFile(path, []byte(validYAMLAsJSON), 0o644))
	require.Eventually(t, func() bool {
		projects, ok := cache.Load(context.Background(), path)
		return ok && len(projects) == 1 && projects[0].Name == "Gamma"
	}, 2*time.Second, 10*time.Millisecond)
}

const validYAMLAsJSON = `[{"id": 7, "name": "Gamma", "start_date": "2020-09-01", "end_date": "2020-12-01",
 "course_id": "TDP001", "course_name": "Handhavande", "short_description": "Shell scripts",
 "long_description": "Shell scripts for the lab machines", "external_link": "",
 "small_image_path": "gamma.png", "big_image_path": "gamma-big.png", "academic_credits": 6,
 "techniques": ["Bash", "bash", "Linux"]}]`

func TestCacheDropsOnRemove(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, _ := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Load(context.Background(), path)
	require.True(t, ok)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool { return !cache.Cached() }, 2*time.Second, 10*time.Millisecond)

	_, ok = cache.Load(context.Background(), path)
	assert.False(t, ok)
}

func TestCacheIgnoresSiblingFiles(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, _ := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Load(context.Background(), path)
	require.True(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "notes.txt"), []byte("hi"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.True(t, cache.Cached())
}

func TestCacheOtherSourcesBypass(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	other := writeCatalog(t, "other.yaml", validYAML)
	loader, buf := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	for i := 0; i < 2; i++ {
		projects, ok := cache.Load(context.Background(), other)
		require.True(t, ok)
		assert.Len(t, projects, 1)
	}
	assert.False(t, cache.Cached())
	assert.Equal(t, 2, countLoads(buf))
}

func TestCacheConcurrentMisses(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, buf := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			projects, ok := cache.Load(context.Background(), path)
			assert.True(t, ok)
			assert.Len(t, projects, 2)
		}()
	}
	wg.Wait()

	assert.True(t, cache.Cached())
	assert.LessOrEqual(t, countLoads(buf), 16)
	assert.GreaterOrEqual(t, countLoads(buf), 1)
}

func TestCacheCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	gated := newGatedLoader()

	cache, err := newCache(gated, path)
	require.NoError(t, err)
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan bool, 1)
	go func() {
		_, ok := cache.Load(ctx, path)
		first <- ok
	}()
	<-gated.started

	second := make(chan bool, 1)
	go func() {
		_, ok := cache.Load(context.Background(), path)
		second <- ok
	}()
	// Let the second caller join the load in flight.
	time.Sleep(50 * time.Millisecond)

	cancel()
	close(gated.release)

	<-first
	assert.True(t, <-second, "live caller gets the catalog")
	assert.Equal(t, int32(1), gated.calls.Load())
	assert.True(t, cache.Cached())
}

func TestCacheInvalidate(t *testing.T) {
	path := writeCatalog(t, "data.json", validJSON)
	loader, buf := newTestLoader()

	cache, err := NewCache(loader, path)
	require.NoError(t, err)
	defer cache.Close()

	cache.Load(context.Background(), path)
	cache.Invalidate()
	assert.False(t, cache.Cached())
	cache.Load(context.Background(), path)
	assert.Equal(t, 2, countLoads(buf))
}

func TestNewCacheRejectsRemoteSources(t *testing.T) {
	_, err := NewCache(NewLoader(nil), "s3://bucket/data.json")
	assert.Error(t, err)
}

func TestNewCacheMissingDirectory(t *testing.T) {
	_, err := NewCache(NewLoader(nil), filepath.Join(t.TempDir(), "missing", "data.json"))
	assert.Error(t, err)
}
