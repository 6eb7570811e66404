package bracket

import (
	"fmt"

	"github.com/Panz66/febw/internal/model"
)

const UnnamedMatch = "Nama match belum diupdate"

// A heat of one session. Riders are listed in start order.
type Match struct {
	Session int
	Pool    Pool
	Index   int
	Name    string
	Riders  []model.Participant
}

// Key identifies the match inside its session, e.g. "Utama-0".
func (m Match) Key() string {
	return fmt.Sprintf("%s-%d", m.Pool, m.Index)
}

// ID identifies the match across sessions, e.g. "S1-Utama-0".
func (m Match) ID() string {
	return fmt.Sprintf("S%d-%s", m.Session, m.Key())
}

func (m Match) Label() string {
	if m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("%s - Match %d", m.Pool, m.Index+1)
}

func (m Match) Size() int {
	return len(m.Riders)
}

// BuildMatches pairs batch i of batchOrder with batch i+ceil(B/2) and
// interleaves their riders (A0, B0, A1, B1, ...). Leftovers of the longer
// side are appended. A batch without partner forms a match on its own.
func BuildMatches(pool []model.Participant, batchOrder []int) [][]model.Participant {
	half := (len(batchOrder) + 1) / 2
	matches := make([][]model.Participant, 0, half)
	for i := range half {
		left := ridersOfBatch(pool, batchOrder[i])
		right := []model.Participant{}
		if i+half < len(batchOrder) {
			right = ridersOfBatch(pool, batchOrder[i+half])
		}
		match := make([]model.Participant, 0, len(left)+len(right))
		for j := range max(len(left), len(right)) {
			if j < len(left) {
				match = append(match, left[j])
			}
			if j < len(right) {
				match = append(match, right[j])
			}
		}
		matches = append(matches, match)
	}
	return matches
}

func ridersOfBatch(pool []model.Participant, batch int) []model.Participant {
	out := []model.Participant{}
	for _, p := range pool {
		if p.Batch == batch {
			out = append(out, p)
		}
	}
	return out
}

// NameOf returns the name carried by the first rider of the match that has
// one for the session, not necessarily the first rider. Naming a match
// writes the name to every rider, so both agree once a name is saved.
func NameOf(riders []model.Participant, session int) string {
	for _, p := range riders {
		if name := p.MatchName(session); name != "" {
			return name
		}
	}
	return ""
}

func toMatches(groups [][]model.Participant, session int, pool Pool) []Match {
	matches := make([]Match, 0, len(groups))
	for i, riders := range groups {
		matches = append(matches, Match{
			Session: session,
			Pool:    pool,
			Index:   i,
			Name:    NameOf(riders, session),
			Riders:  riders,
		})
	}
	return matches
}
