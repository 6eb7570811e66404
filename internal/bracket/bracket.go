// Package bracket seeds the riders of one competition into batches, pools
// and matches. Every function works on a snapshot and never mutates it.
package bracket

import (
	"github.com/Panz66/febw/internal/model"
)

// Entry is one rider of a batch with its start gates and rank.
type Entry struct {
	Rider model.Participant
	Gate  Gate
	Rank  int
}

type SeededBatch struct {
	Number  int
	Entries []Entry
}

func (b SeededBatch) Riders() []model.Participant {
	riders := make([]model.Participant, len(b.Entries))
	for i, e := range b.Entries {
		riders[i] = e.Rider
	}
	return riders
}

type Round struct {
	Session   int
	Primary   []Match
	Secondary []Match
}

func (r Round) Matches() []Match {
	out := make([]Match, 0, len(r.Primary)+len(r.Secondary))
	out = append(out, r.Primary...)
	return append(out, r.Secondary...)
}

func (r Round) Find(pool Pool, index int) (Match, bool) {
	matches := r.Primary
	if pool == Secondary {
		matches = r.Secondary
	}
	if index < 0 || index >= len(matches) {
		return Match{}, false
	}
	return matches[index], true
}

type Bracket struct {
	Competition model.Competition
	Batches     []SeededBatch
	Unassigned  []model.Participant
	Session1    Round
	Session2    Round
	Progression *Progression
	Stage       Stage
}

func (b Bracket) Round(session int) Round {
	if session == 2 {
		return b.Session2
	}
	return b.Session1
}

// Build runs the whole seeding pipeline over one snapshot.
func Build(competition model.Competition, riders []model.Participant) (Bracket, error) {
	batches, unassigned, err := GroupByBatch(riders, competition.BatchCount)
	if err != nil {
		return Bracket{}, err
	}

	out := Bracket{
		Competition: competition,
		Unassigned:  unassigned,
		Stage:       StageOf(riders),
		Batches:     make([]SeededBatch, 0, len(batches)),
	}
	assigned := []model.Participant{}
	for _, b := range batches {
		gates := Gates(len(b.Riders))
		ranks := Ranks(b.Riders)
		entries := make([]Entry, len(b.Riders))
		for i, p := range b.Riders {
			entries[i] = Entry{Rider: p, Gate: gates[i], Rank: ranks[i]}
		}
		out.Batches = append(out.Batches, SeededBatch{Number: b.Number, Entries: entries})
		assigned = append(assigned, b.Riders...)
	}
	order := BatchOrder(assigned)

	primary, secondary := SplitPools(batches)
	s1Primary := nonEmpty(BuildMatches(primary, order))
	s1Secondary := nonEmpty(BuildMatches(secondary, order))
	out.Session1 = Round{
		Session:   1,
		Primary:   toMatches(s1Primary, 1, Primary),
		Secondary: toMatches(s1Secondary, 1, Secondary),
	}

	s2Primary, err := Reseed(primary, s1Primary)
	if err != nil {
		return Bracket{}, err
	}
	s2Secondary, err := Reseed(secondary, s1Secondary)
	if err != nil {
		return Bracket{}, err
	}
	out.Session2 = Round{
		Session:   2,
		Primary:   toMatches(s2Primary, 2, Primary),
		Secondary: toMatches(s2Secondary, 2, Secondary),
	}

	out.Progression, err = NewProgression(out.Session1.Matches(), out.Session2.Matches())
	if err != nil {
		return Bracket{}, err
	}
	return out, nil
}

func nonEmpty(groups [][]model.Participant) [][]model.Participant {
	out := make([][]model.Participant, 0, len(groups))
	for _, g := range groups {
		if len(g) > 0 {
			out = append(out, g)
		}
	}
	return out
}
