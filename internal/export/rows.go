// Package export turns a computed bracket into flat rows for CSV download
// and Google Sheets.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/Panz66/febw/internal/bracket"
)

var Header = []string{
	"Sesi", "Pool", "Match", "Nama Match", "Urutan", "Batch",
	"Nama", "Plat", "Komunitas", "Gate 1", "Gate 2", "Finish", "Total Point",
}

// Rows lists every rider of every match, session 1 first. The first row is
// the header.
func Rows(b bracket.Bracket) [][]string {
	gates := map[int]bracket.Gate{}
	for _, batch := range b.Batches {
		for _, e := range batch.Entries {
			gates[e.Rider.ID] = e.Gate
		}
	}

	rows := [][]string{Header}
	for _, round := range []bracket.Round{b.Session1, b.Session2} {
		for _, m := range round.Matches() {
			for pos, p := range m.Riders {
				g := gates[p.ID]
				rows = append(rows, []string{
					strconv.Itoa(round.Session),
					m.Pool.String(),
					strconv.Itoa(m.Index + 1),
					bracket.MatchLabel(m.Name),
					strconv.Itoa(pos + 1),
					strconv.Itoa(p.Batch),
					p.Name,
					p.Plate,
					p.Community,
					strconv.Itoa(g.Gate1),
					g.Gate2Label(),
					bracket.FinishLabel(p, round.Session),
					strconv.Itoa(bracket.TotalPoint(p, round.Session)),
				})
			}
		}
	}
	return rows
}

func WriteCSV(w io.Writer, b bracket.Bracket) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(b)); err != nil {
		return err
	}
	return cw.Error()
}
