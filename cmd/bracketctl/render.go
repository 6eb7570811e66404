package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"

	"gopkg.in/yaml.v3"
)

type bracketDoc struct {
	Competition string       `yaml:"competition"`
	Stage       string       `yaml:"stage"`
	Batches     []batchDoc   `yaml:"batches"`
	Unassigned  []string     `yaml:"unassigned,omitempty"`
	Sessions    []sessionDoc `yaml:"sessions"`
}

type batchDoc struct {
	Number int        `yaml:"number"`
	Riders []riderDoc `yaml:"riders"`
}

type riderDoc struct {
	Name   string `yaml:"name"`
	Plate  string `yaml:"plate"`
	Gate1  int    `yaml:"gate1"`
	Gate2  int    `yaml:"gate2,omitempty"`
	Points int    `yaml:"points"`
	Rank   int    `yaml:"rank"`
}

type sessionDoc struct {
	Session int        `yaml:"session"`
	Matches []matchDoc `yaml:"matches"`
}

type matchDoc struct {
	ID     string   `yaml:"id"`
	Label  string   `yaml:"label"`
	Winner string   `yaml:"winner"`
	Riders []string `yaml:"riders"`
	From   []string `yaml:"from,omitempty"`
}

func riderLabel(p model.Participant) string {
	return fmt.Sprintf("%s #%s", p.Name, p.Plate)
}

func newBracketDoc(b bracket.Bracket) bracketDoc {
	doc := bracketDoc{
		Competition: b.Competition.Name,
		Stage:       b.Stage.String(),
	}
	for _, batch := range b.Batches {
		bd := batchDoc{Number: batch.Number, Riders: []riderDoc{}}
		for _, e := range batch.Entries {
			bd.Riders = append(bd.Riders, riderDoc{
				Name:   e.Rider.Name,
				Plate:  e.Rider.Plate,
				Gate1:  e.Gate.Gate1,
				Gate2:  e.Gate.Gate2,
				Points: e.Rider.CumulativePoints(),
				Rank:   e.Rank,
			})
		}
		doc.Batches = append(doc.Batches, bd)
	}
	for _, p := range b.Unassigned {
		doc.Unassigned = append(doc.Unassigned, riderLabel(p))
	}
	for _, round := range []bracket.Round{b.Session1, b.Session2} {
		sd := sessionDoc{Session: round.Session, Matches: []matchDoc{}}
		for _, m := range round.Matches() {
			md := matchDoc{
				ID:     m.ID(),
				Label:  m.Label(),
				Winner: bracket.WinnerName(m.Riders, m.Session),
			}
			for _, p := range m.Riders {
				md.Riders = append(md.Riders, riderLabel(p))
			}
			if b.Progression != nil && m.Session == 2 {
				for _, f := range b.Progression.Feeders(m) {
					md.From = append(md.From, fmt.Sprintf("%s (%d)", f.Match.ID(), f.Riders))
				}
			}
			sd.Matches = append(sd.Matches, md)
		}
		doc.Sessions = append(doc.Sessions, sd)
	}
	return doc
}

func writeYAML(w io.Writer, b bracket.Bracket) error {
	doc := newBracketDoc(b)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, b bracket.Bracket) error {
	doc := newBracketDoc(b)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%s)\n", doc.Competition, doc.Stage)
	for _, batch := range doc.Batches {
		fmt.Fprintf(tw, "\nBatch %d\n", batch.Number)
		fmt.Fprintln(tw, "GATE1\tGATE2\tPLAT\tNAMA\tPOIN\tRANK")
		for _, r := range batch.Riders {
			gate2 := "-"
			if r.Gate2 > 0 {
				gate2 = fmt.Sprint(r.Gate2)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\n", r.Gate1, gate2, r.Plate, r.Name, r.Points, r.Rank)
		}
	}
	if len(doc.Unassigned) > 0 {
		fmt.Fprintf(tw, "\nBelum dapat batch: %s\n", strings.Join(doc.Unassigned, ", "))
	}
	for _, s := range doc.Sessions {
		fmt.Fprintf(tw, "\nSesi %d\n", s.Session)
		for _, m := range s.Matches {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Label, strings.Join(m.Riders, ", "), m.Winner)
		}
	}
	return tw.Flush()
}

func writeAssignments(w io.Writer, riders []model.Participant, wheel *bracket.Wheel) error {
	byID := make(map[int]model.Participant, len(riders))
	for _, p := range riders {
		byID[p.ID] = p
	}
	capacities := wheel.Capacities()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw)
	for i, ids := range wheel.Assignments() {
		names := make([]string, len(ids))
		for j, id := range ids {
			names[j] = riderLabel(byID[id])
		}
		fmt.Fprintf(tw, "Batch %d\t%d/%d\t%s\n", i+1, len(ids), capacities[i], strings.Join(names, ", "))
	}
	return tw.Flush()
}
