package bracket

import (
	"strconv"

	"github.com/Panz66/febw/internal/model"
)

const (
	NoFinish     = "-"
	NoWinner     = "Belum ada"
	UnknownMatch = "Unknown"
)

// TotalPoint is the moto total. Session 2 adds the session 2 penalty.
func TotalPoint(p model.Participant, session int) int {
	total := p.Point1 + p.Point2
	if session == 2 {
		s, _ := p.Session(2)
		total += s.Penalty
	}
	return total
}

// Winner returns the rider with the lowest recorded finish of the session.
// Without any recorded finish there is no winner.
func Winner(riders []model.Participant, session int) (model.Participant, bool) {
	var (
		best  model.Participant
		found bool
	)
	for _, p := range riders {
		f := p.Finish(session)
		if f <= 0 {
			continue
		}
		if !found || f < best.Finish(session) {
			best = p
			found = true
		}
	}
	return best, found
}

func WinnerName(riders []model.Participant, session int) string {
	if w, ok := Winner(riders, session); ok {
		return w.Name
	}
	return NoWinner
}

// FinishOrder lists the riders with a recorded finish, fastest first.
func FinishOrder(riders []model.Participant, session int) []model.Participant {
	out := []model.Participant{}
	for _, p := range SortByFinish(riders, session) {
		if p.Finish(session) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func FinishLabel(p model.Participant, session int) string {
	if f := p.Finish(session); f > 0 {
		return strconv.Itoa(f)
	}
	return NoFinish
}

func MatchLabel(name string) string {
	if name == "" {
		return UnnamedMatch
	}
	return name
}

type MatchWinner struct {
	MatchName string
	Winner    model.Participant
}

// SessionWinners groups riders with a recorded finish by the match name of
// the session record and picks the winner of every group. Groups keep the
// order in which their first rider appears.
func SessionWinners(riders []model.Participant, session int) []MatchWinner {
	order := []string{}
	groups := map[string][]model.Participant{}
	for _, p := range riders {
		s, ok := p.Session(session)
		if !ok || !s.HasFinish() {
			continue
		}
		name := p.MatchName(session)
		if name == "" {
			name = UnknownMatch
		}
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], p)
	}
	winners := make([]MatchWinner, 0, len(order))
	for _, name := range order {
		w, _ := Winner(groups[name], session)
		winners = append(winners, MatchWinner{MatchName: name, Winner: w})
	}
	return winners
}
