package bracket

import (
	"fmt"

	"github.com/Panz66/febw/internal/model"
)

func rider(id, batch, point1 int) model.Participant {
	return model.Participant{
		ID:     id,
		Name:   fmt.Sprintf("Rider %d", id),
		Plate:  fmt.Sprintf("P%d", id),
		Batch:  batch,
		Point1: point1,
		Paid:   true,
	}
}

func withSession(p model.Participant, session, finish, penalty int, matchName string) model.Participant {
	p.Sessions = append(p.Sessions, model.SessionPoint{
		Session:   session,
		Finish:    finish,
		Penalty:   penalty,
		MatchName: matchName,
	})
	return p
}

func ids(riders []model.Participant) []int {
	out := make([]int, len(riders))
	for i, p := range riders {
		out[i] = p.ID
	}
	return out
}

func matchIDs(matches []Match) [][]int {
	out := make([][]int, len(matches))
	for i, m := range matches {
		out[i] = ids(m.Riders)
	}
	return out
}
