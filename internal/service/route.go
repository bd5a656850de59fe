package service

import (
	"context"
	"fmt"
	"math"

	"seawing-logistics/internal/domain"
)

type RouteSegment struct {
	From       string
	To         string
	DistanceKm float64
}

// RoutePlan is a closed tour: Route starts and ends at the origin port.
type RoutePlan struct {
	Route           []string
	TotalDistanceKm float64
	Segments        []RouteSegment
}

// PlanRoute builds a single closed tour from the origin through the delivery
// ports and back, using a farthest-first heuristic: head for the delivery
// port with the greatest direct distance from the origin via the shortest
// path, then return. Ports already visited along the way need no extra stop.
// This is deliberately not a TSP solver; deliveries have few stops and the
// binding constraint is returning to base.
//
// Duplicate destinations (multiple orders sharing a locker) collapse to one
// stop. Total distance and segments are always recomputed from the final
// route so concatenated sub-paths cannot double-count.
func PlanRoute(ctx context.Context, graph GraphStore, origin string, destinations []string) (*RoutePlan, error) {
	if len(destinations) == 0 {
		return nil, fmt.Errorf("no destinations: %w", domain.ErrValidation)
	}

	distinct := dedupe(destinations)

	target := distinct[0]
	if len(distinct) > 1 {
		furthest := 0.0
		target = ""
		// First encountered max wins on ties.
		for _, dest := range distinct {
			weight, ok, err := graph.EdgeWeight(ctx, origin, dest)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("no edge from %s to %s: %w", origin, dest, domain.ErrRouting)
			}
			if weight > furthest {
				furthest = weight
				target = dest
			}
		}
		if target == "" {
			return nil, fmt.Errorf("no reachable destination from %s: %w", origin, domain.ErrRouting)
		}
	}

	path, err := graph.ShortestPath(ctx, origin, target)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, fmt.Errorf("no path from %s to %s: %w", origin, target, domain.ErrRouting)
	}

	route := append([]string(nil), path.Ports...)
	if last := route[len(route)-1]; last != origin {
		returnPath, err := graph.ShortestPath(ctx, last, origin)
		if err != nil {
			return nil, err
		}
		if returnPath == nil {
			return nil, fmt.Errorf("no return path from %s to %s: %w", last, origin, domain.ErrRouting)
		}
		route = append(route, returnPath.Ports[1:]...)
	}

	segments := make([]RouteSegment, 0, len(route)-1)
	total := 0.0
	for i := 0; i < len(route)-1; i++ {
		weight, ok, err := graph.EdgeWeight(ctx, route[i], route[i+1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no edge from %s to %s: %w", route[i], route[i+1], domain.ErrRouting)
		}
		segments = append(segments, RouteSegment{From: route[i], To: route[i+1], DistanceKm: weight})
		total += weight
	}

	return &RoutePlan{Route: route, TotalDistanceKm: round2(total), Segments: segments}, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
