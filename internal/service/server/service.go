package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/oshokin/feynman-diagrams/internal/config"
	domain "github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/formula"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/render"
	repo "github.com/oshokin/feynman-diagrams/internal/repository/catalog"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// enumerationKey identifies a memoised enumeration.
type enumerationKey struct {
	order    int
	maxLevel int
}

func (k enumerationKey) String() string {
	return fmt.Sprintf("%d/%d", k.order, k.maxLevel)
}

// repositoryFunc opens the catalog repository of one enumeration.
type repositoryFunc func(key enumerationKey) (repo.Repository, error)

// service encapsulates enumeration, rendering and the catalog cache.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// repository opens persisted catalogs; nil disables persistence.
	repository repositoryFunc
	// render holds the PNG canvas settings.
	render config.Render
	// cache holds finished enumerations by order and level cap.
	cache map[enumerationKey][]domain.Entry
	// mu protects the cache only.
	mu sync.Mutex
	// flights runs at most one load-or-compute per key.
	flights singleflight.Group
}

// newService creates a service. An empty catalogDir keeps everything in memory.
func newService(catalogDir string, renderSettings config.Render) *service {
	s := &service{
		render: renderSettings,
		cache:  make(map[enumerationKey][]domain.Entry),
	}

	if catalogDir != "" {
		s.repository = func(key enumerationKey) (repo.Repository, error) {
			return repo.NewFileRepository(catalogPath(catalogDir, key))
		}
	}

	return s
}

// catalogPath names the catalog file of one enumeration.
func catalogPath(dir string, key enumerationKey) string {
	return filepath.Join(dir, fmt.Sprintf("catalog-order%d-max%d.yaml", key.order, key.maxLevel))
}

// Enumerate returns the diagrams of the requested order, computing them at most once.
func (s *service) Enumerate(ctx context.Context, order, maxLevel int) ([]domain.Entry, error) {
	key := enumerationKey{order: order, maxLevel: maxLevel}

	if entries, ok := s.cached(key); ok {
		logger.DebugKV(ctx, "Enumeration served from cache", "order", order, "max_level", maxLevel)

		return entries, nil
	}

	// The shared run outlives a caller that gives up; its result is still cached.
	flightCtx := context.WithoutCancel(ctx)

	ch := s.flights.DoChan(key.String(), func() (any, error) {
		return s.fill(flightCtx, key)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		entries, _ := res.Val.([]domain.Entry)

		return entries, nil
	}
}

// cached returns the finished enumeration of key, if any.
func (s *service) cached(key enumerationKey) ([]domain.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.cache[key]

	return entries, ok
}

// fill loads or computes key and stores the result in the cache.
func (s *service) fill(ctx context.Context, key enumerationKey) ([]domain.Entry, error) {
	if entries, ok := s.cached(key); ok {
		return entries, nil
	}

	entries, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries, err = s.compute(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.cache[key] = entries
	s.mu.Unlock()

	return entries, nil
}

// load reads a persisted catalog. A missing one yields nil entries.
func (s *service) load(ctx context.Context, key enumerationKey) ([]domain.Entry, error) {
	if s.repository == nil {
		return nil, nil
	}

	repository, err := s.repository(key)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	catalog, err := repository.Load(ctx)
	switch {
	case err == nil:
		if catalog.Order != key.order || catalog.MaxLevel != key.maxLevel {
			logger.WarnKV(ctx, "Ignoring mismatched catalog", "order", catalog.Order, "max_level", catalog.MaxLevel)

			return nil, nil
		}

		logger.InfoKV(ctx, "Catalog loaded", "id", catalog.ID, "diagrams", len(catalog.Entries))

		return catalog.Entries, nil
	case errors.Is(err, repo.ErrNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("load catalog: %w", err)
	}
}

// compute enumerates key and persists the result when a repository is configured.
func (s *service) compute(ctx context.Context, key enumerationKey) ([]domain.Entry, error) {
	catalog, err := common.Enumerate(ctx, key.order, key.maxLevel)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Diagrams enumerated", "order", key.order, "max_level", key.maxLevel,
		"diagrams", len(catalog.Entries))

	if s.repository == nil {
		return catalog.Entries, nil
	}

	repository, err := s.repository(key)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	if err := repository.Save(ctx, catalog); err != nil {
		logger.Errorf(ctx, "Failed to persist catalog: %v", err)

		return nil, fmt.Errorf("persist catalog: %w", err)
	}

	return catalog.Entries, nil
}

// Render draws the index-th (1-based) diagram of an enumeration as PNG.
func (s *service) Render(ctx context.Context, order, maxLevel, index int) ([]byte, error) {
	entries, err := s.Enumerate(ctx, order, maxLevel)
	if err != nil {
		return nil, err
	}

	if index < 1 || index > len(entries) {
		return nil, fmt.Errorf("%w: index %d of %d", domain.ErrNotFound, index, len(entries))
	}

	d := entries[index-1].Diagram

	var buf bytes.Buffer

	err = render.PNG(&buf, d, formula.Response(d).Pretty(), render.PNGOptions{
		Width:  s.render.Width,
		Height: s.render.Height,
		Title:  d.Signature(),
	})
	if err != nil {
		return nil, fmt.Errorf("render diagram %d: %w", index, err)
	}

	return buf.Bytes(), nil
}
