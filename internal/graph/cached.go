package graph

import (
	"context"
	"encoding/json"
	"time"

	"seawing-logistics/internal/cache"
	"seawing-logistics/internal/domain"
)

// CachedGraph memoizes shortest-path results in a byte cache. Edge weights
// are already O(1) map lookups and go straight to the graph. Cache failures
// are treated as misses so Redis being down never fails a routing query.
type CachedGraph struct {
	graph *Graph
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedGraph(g *Graph, c cache.Cache, ttl time.Duration) *CachedGraph {
	return &CachedGraph{graph: g, cache: c, ttl: ttl}
}

func (c *CachedGraph) EdgeWeight(ctx context.Context, from, to string) (float64, bool, error) {
	return c.graph.EdgeWeight(ctx, from, to)
}

func (c *CachedGraph) ShortestPath(ctx context.Context, from, to string) (*domain.Path, error) {
	key := pathKey(from, to)
	if data, err := c.cache.Get(ctx, key); err == nil {
		var entry pathEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if entry.Unreachable {
				return nil, nil
			}
			return &domain.Path{Ports: entry.Ports, TotalDistanceKm: entry.TotalDistanceKm}, nil
		}
	}

	path, err := c.graph.ShortestPath(ctx, from, to)
	if err != nil {
		return nil, err
	}

	entry := pathEntry{Unreachable: path == nil}
	if path != nil {
		entry.Ports = path.Ports
		entry.TotalDistanceKm = path.TotalDistanceKm
	}
	if data, err := json.Marshal(entry); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
	}
	return path, nil
}

type pathEntry struct {
	Ports           []string `json:"ports,omitempty"`
	TotalDistanceKm float64  `json:"total_distance_km"`
	Unreachable     bool     `json:"unreachable,omitempty"`
}

func pathKey(from, to string) string {
	return "path:" + from + "|" + to
}
