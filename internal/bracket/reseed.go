package bracket

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Panz66/febw/internal/model"
)

var ErrShapeMismatch = errors.New("pool size does not match the session 1 match sizes")

// unsetFinish sorts riders without a recorded finish after everyone else.
const unsetFinish = 999999

func finishKey(p model.Participant, session int) int {
	if f := p.Finish(session); f > 0 {
		return f
	}
	return unsetFinish
}

// SortByFinish returns a copy ordered by the finish of the given session.
// Riders without a finish go last; ties keep their relative order.
func SortByFinish(riders []model.Participant, session int) []model.Participant {
	sorted := slices.Clone(riders)
	slices.SortStableFunc(sorted, func(a, b model.Participant) int {
		return cmp.Compare(finishKey(a, session), finishKey(b, session))
	})
	return sorted
}

// Reseed orders a pool by session 1 finish and cuts it into chunks with the
// sizes of the session 1 matches, in match order. The fastest riders fill
// match 0.
func Reseed(pool []model.Participant, shape [][]model.Participant) ([][]model.Participant, error) {
	total := 0
	for _, m := range shape {
		total += len(m)
	}
	if total != len(pool) {
		return nil, fmt.Errorf("%w: %d riders for %d slots", ErrShapeMismatch, len(pool), total)
	}
	sorted := SortByFinish(pool, 1)
	out := make([][]model.Participant, len(shape))
	cursor := 0
	for i, m := range shape {
		out[i] = sorted[cursor : cursor+len(m) : cursor+len(m)]
		cursor += len(m)
	}
	return out, nil
}
