// Package graph holds the weighted, undirected port-distance graph and its
// shortest-path queries. The graph is built once at startup from the ports
// table: every pair of ports gets an edge weighted by great-circle distance,
// so weights are symmetric by construction.
package graph

import (
	"container/heap"
	"context"
	"math"
	"sort"

	"seawing-logistics/internal/domain"
	"seawing-logistics/internal/geo"
)

type Graph struct {
	ports   map[string]domain.Port
	weights map[string]map[string]float64
}

// Build precomputes pairwise edge weights from port coordinates.
func Build(ports []domain.Port) *Graph {
	g := &Graph{
		ports:   make(map[string]domain.Port, len(ports)),
		weights: make(map[string]map[string]float64, len(ports)),
	}
	for _, port := range ports {
		g.ports[port.Name] = port
		g.weights[port.Name] = make(map[string]float64, len(ports)-1)
	}
	for i := 0; i < len(ports); i++ {
		for j := i + 1; j < len(ports); j++ {
			a, b := ports[i], ports[j]
			d := geo.DistanceKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
			g.weights[a.Name][b.Name] = d
			g.weights[b.Name][a.Name] = d
		}
	}
	return g
}

// EdgeWeight returns the cached distance between two ports. ok is false when
// either port is unknown.
func (g *Graph) EdgeWeight(ctx context.Context, from, to string) (float64, bool, error) {
	if from == to {
		if _, known := g.ports[from]; known {
			return 0, true, nil
		}
		return 0, false, nil
	}
	edges, ok := g.weights[from]
	if !ok {
		return 0, false, nil
	}
	w, ok := edges[to]
	return w, ok, nil
}

// ShortestPath runs Dijkstra between two named ports. A nil Path means one of
// the ports is unknown or unreachable.
func (g *Graph) ShortestPath(ctx context.Context, from, to string) (*domain.Path, error) {
	if _, ok := g.ports[from]; !ok {
		return nil, nil
	}
	if _, ok := g.ports[to]; !ok {
		return nil, nil
	}
	if from == to {
		return &domain.Path{Ports: []string{from}, TotalDistanceKm: 0}, nil
	}

	dist := make(map[string]float64, len(g.ports))
	prev := make(map[string]string, len(g.ports))
	for name := range g.ports {
		dist[name] = math.Inf(1)
	}
	dist[from] = 0

	pq := &nodeQueue{{name: from, dist: 0}}
	heap.Init(pq)
	visited := make(map[string]bool, len(g.ports))

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(nodeDist)
		if visited[cur.name] {
			continue
		}
		visited[cur.name] = true
		if cur.name == to {
			break
		}
		// Deterministic neighbor order keeps tie-broken paths stable.
		neighbors := make([]string, 0, len(g.weights[cur.name]))
		for n := range g.weights[cur.name] {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			alt := cur.dist + g.weights[cur.name][n]
			if alt < dist[n] {
				dist[n] = alt
				prev[n] = cur.name
				heap.Push(pq, nodeDist{name: n, dist: alt})
			}
		}
	}

	if math.IsInf(dist[to], 1) {
		return nil, nil
	}

	var ports []string
	for at := to; ; {
		ports = append([]string{at}, ports...)
		if at == from {
			break
		}
		at = prev[at]
	}
	return &domain.Path{Ports: ports, TotalDistanceKm: dist[to]}, nil
}

// Port returns the port record backing a graph node.
func (g *Graph) Port(name string) (domain.Port, bool) {
	p, ok := g.ports[name]
	return p, ok
}

type nodeDist struct {
	name string
	dist float64
}

type nodeQueue []nodeDist

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeDist)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
