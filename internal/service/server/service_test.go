package server

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/feynman-diagrams/internal/config"
	domain "github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/generator"
	repo "github.com/oshokin/feynman-diagrams/internal/repository/catalog"
)

func testRender() config.Render {
	return config.Render{Width: 120, Height: 160}
}

// TestService_EnumerateMemoises asserts repeated calls return the cached entries.
func TestService_EnumerateMemoises(t *testing.T) {
	t.Parallel()

	s := newService("", testRender())

	first, err := s.Enumerate(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, first, 8)

	second, err := s.Enumerate(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Same(t, &first[0], &second[0])

	twoLevel, err := s.Enumerate(context.Background(), 3, 1)
	require.NoError(t, err)
	require.Len(t, twoLevel, 4)
	require.Len(t, s.cache, 2)
}

// TestService_EnumerateErrors asserts invalid arguments are reported and not cached.
func TestService_EnumerateErrors(t *testing.T) {
	t.Parallel()

	s := newService("", testRender())

	_, err := s.Enumerate(context.Background(), 0, 0)
	require.ErrorIs(t, err, generator.ErrInvalidOrder)

	_, err = s.Enumerate(context.Background(), 3, -2)
	require.ErrorIs(t, err, generator.ErrInvalidMaxLevel)
	require.Empty(t, s.cache)
}

// TestService_PersistsAndReloadsCatalogs verifies catalogs survive a restart.
func TestService_PersistsAndReloadsCatalogs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := enumerationKey{order: 3, maxLevel: 2}

	s := newService(dir, testRender())

	computed, err := s.Enumerate(context.Background(), key.order, key.maxLevel)
	require.NoError(t, err)

	_, err = os.Stat(catalogPath(dir, key))
	require.NoError(t, err)

	restarted := newService(dir, testRender())

	loaded, err := restarted.Enumerate(context.Background(), key.order, key.maxLevel)
	require.NoError(t, err)
	require.Len(t, loaded, len(computed))

	for i := range computed {
		require.Equal(t, computed[i].Diagram, loaded[i].Diagram)
		require.Equal(t, computed[i].Formula, loaded[i].Formula)
	}
}

// TestService_IgnoresMismatchedCatalog verifies a catalog for another run is recomputed.
func TestService_IgnoresMismatchedCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := enumerationKey{order: 1, maxLevel: 0}

	r, err := repo.NewFileRepository(catalogPath(dir, key))
	require.NoError(t, err)
	require.NoError(t, r.Save(context.Background(), &domain.Catalog{Order: 3}))

	s := newService(dir, testRender())

	entries, err := s.Enumerate(context.Background(), key.order, key.maxLevel)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestService_BrokenCatalog verifies unreadable catalogs are reported.
func TestService_BrokenCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := enumerationKey{order: 1, maxLevel: 0}

	require.NoError(t, os.WriteFile(catalogPath(dir, key), []byte("id: [unclosed"), 0o600))

	s := newService(dir, testRender())

	_, err := s.Enumerate(context.Background(), key.order, key.maxLevel)
	require.Error(t, err)
}

// TestService_Render asserts PNG output and index bounds.
func TestService_Render(t *testing.T) {
	t.Parallel()

	s := newService("", testRender())

	data, err := s.Render(context.Background(), 3, 1, 4)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 120, cfg.Width)
	require.Equal(t, 160, cfg.Height)

	_, err = s.Render(context.Background(), 3, 1, 5)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Render(context.Background(), 3, 1, 0)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestResolveListenAddress covers overrides, port extraction and bad input.
func TestResolveListenAddress(t *testing.T) {
	t.Parallel()

	addr, err := resolveListenAddress("example.com:50061", "")
	require.NoError(t, err)
	require.Equal(t, ":50061", addr)

	addr, err = resolveListenAddress("example.com:50061", "127.0.0.1:9000")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", addr)

	_, err = resolveListenAddress("", "")
	require.ErrorIs(t, err, ErrNoServerAddress)

	_, err = resolveListenAddress("no-port", "")
	require.Error(t, err)
}

// TestCatalogPath checks the file naming of persisted enumerations.
func TestCatalogPath(t *testing.T) {
	t.Parallel()

	got := catalogPath("out", enumerationKey{order: 5, maxLevel: 2})
	require.Equal(t, filepath.Join("out", "catalog-order5-max2.yaml"), got)
}

// gatedRepository blocks Load until release is closed and counts the loads.
type gatedRepository struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	loads   atomic.Int32
}

func newGatedRepository() *gatedRepository {
	return &gatedRepository{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *gatedRepository) Load(context.Context) (*domain.Catalog, error) {
	r.loads.Add(1)
	r.once.Do(func() { close(r.started) })
	<-r.release

	return nil, repo.ErrNotFound
}

func (*gatedRepository) Save(context.Context, *domain.Catalog) error { return nil }

// TestService_SlowKeyDoesNotBlockOthers checks that enumerations of different keys run independently.
func TestService_SlowKeyDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	slow := enumerationKey{order: 5, maxLevel: 0}
	gate := newGatedRepository()

	s := newService("", testRender())
	s.repository = func(key enumerationKey) (repo.Repository, error) {
		if key == slow {
			return gate, nil
		}

		return repo.NewFileRepository(catalogPath(t.TempDir(), key))
	}

	done := make(chan error, 1)

	go func() {
		_, err := s.Enumerate(context.Background(), slow.order, slow.maxLevel)
		done <- err
	}()

	<-gate.started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := s.Enumerate(ctx, 3, 1)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	data, err := s.Render(ctx, 3, 1, 1)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	close(gate.release)
	require.NoError(t, <-done)

	entries, err = s.Enumerate(context.Background(), slow.order, slow.maxLevel)
	require.NoError(t, err)
	require.Len(t, entries, 80)
}

// TestService_ConcurrentCallersShareOneRun checks that concurrent requests for one key load it once.
func TestService_ConcurrentCallersShareOneRun(t *testing.T) {
	t.Parallel()

	gate := newGatedRepository()

	s := newService("", testRender())
	s.repository = func(enumerationKey) (repo.Repository, error) { return gate, nil }

	const callers = 8

	results := make(chan []domain.Entry, callers)
	errs := make(chan error, callers)

	for range callers {
		go func() {
			entries, err := s.Enumerate(context.Background(), 3, 0)
			results <- entries
			errs <- err
		}()
	}

	<-gate.started
	close(gate.release)

	for range callers {
		require.NoError(t, <-errs)
		require.Len(t, <-results, 8)
	}

	require.EqualValues(t, 1, gate.loads.Load())
}

// TestService_CallerCancellation checks that a waiting caller returns when its context ends.
func TestService_CallerCancellation(t *testing.T) {
	t.Parallel()

	gate := newGatedRepository()

	s := newService("", testRender())
	s.repository = func(enumerationKey) (repo.Repository, error) { return gate, nil }

	go func() {
		_, _ = s.Enumerate(context.Background(), 3, 0)
	}()

	<-gate.started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Enumerate(ctx, 3, 0)
	require.ErrorIs(t, err, context.Canceled)

	close(gate.release)

	entries, err := s.Enumerate(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, entries, 8)
}
