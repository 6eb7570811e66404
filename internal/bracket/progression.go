package bracket

import (
	"slices"

	"github.com/dominikbraun/graph"
)

func matchID(m Match) string {
	return m.ID()
}

// Progression links every session 1 match to the session 2 matches its
// riders were reseeded into. The edge weight is the number of riders that
// moved along the edge.
type Progression struct {
	graph.Graph[string, Match]
	predecessors map[string]map[string]graph.Edge[string]
}

func NewProgression(session1, session2 []Match) (*Progression, error) {
	g := graph.New(matchID, graph.Directed())
	for _, m := range slices.Concat(session1, session2) {
		if err := g.AddVertex(m); err != nil {
			return nil, err
		}
	}

	origin := map[int]string{}
	for _, m := range session1 {
		for _, p := range m.Riders {
			origin[p.ID] = m.ID()
		}
	}
	for _, m := range session2 {
		moved := map[string]int{}
		for _, p := range m.Riders {
			if from, ok := origin[p.ID]; ok {
				moved[from]++
			}
		}
		for from, count := range moved {
			if err := g.AddEdge(from, m.ID(), graph.EdgeWeight(count)); err != nil {
				return nil, err
			}
		}
	}
	return &Progression{Graph: g}, nil
}

// Feeder is a session 1 match and the number of its riders that start in
// a given session 2 match.
type Feeder struct {
	Match  Match
	Riders int
}

// Feeders lists the session 1 matches feeding the given session 2 match,
// ordered by match id.
func (p *Progression) Feeders(m Match) []Feeder {
	if p.predecessors == nil {
		// the graph does not change after NewProgression
		p.predecessors, _ = p.Graph.PredecessorMap()
	}
	edges := p.predecessors[m.ID()]
	feeders := make([]Feeder, 0, len(edges))
	for source, edge := range edges {
		from, err := p.Vertex(source)
		if err != nil {
			continue
		}
		feeders = append(feeders, Feeder{Match: from, Riders: edge.Properties.Weight})
	}
	slices.SortFunc(feeders, func(a, b Feeder) int {
		return compareMatch(a.Match, b.Match)
	})
	return feeders
}

func compareMatch(a, b Match) int {
	if a.Pool != b.Pool {
		return int(a.Pool) - int(b.Pool)
	}
	return a.Index - b.Index
}
