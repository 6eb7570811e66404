package bracket

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/Panz66/febw/internal/model"
)

var (
	ErrWheelEmpty = errors.New("no riders left on the wheel")
	ErrNotOnWheel = errors.New("rider is not on the wheel")
)

// Wheel draws riders one at a time without replacement and fills the
// currently open batch until it reaches its capacity.
//
// Riders that already carry a batch keep it and count against the
// capacity of that batch.
type Wheel struct {
	capacities []int
	batches    [][]int
	remaining  []model.Participant
	drawn      []int
	current    int
}

func NewWheel(riders []model.Participant, batchCount int) (*Wheel, error) {
	capacities, err := BatchCapacities(len(riders), batchCount)
	if err != nil {
		return nil, err
	}
	w := &Wheel{
		capacities: capacities,
		batches:    make([][]int, batchCount),
	}
	for _, p := range riders {
		if p.Batch >= 1 && p.Batch <= batchCount {
			w.batches[p.Batch-1] = append(w.batches[p.Batch-1], p.ID)
			continue
		}
		w.remaining = append(w.remaining, p)
	}
	w.advance()
	return w, nil
}

// advance moves the cursor to the first batch that still has room.
func (w *Wheel) advance() {
	for w.current < len(w.batches) && len(w.batches[w.current]) >= w.capacities[w.current] {
		w.current++
	}
}

func (w *Wheel) Remaining() []model.Participant {
	return slices.Clone(w.remaining)
}

// Drawn lists the ids confirmed through this wheel, in draw order.
func (w *Wheel) Drawn() []int {
	return slices.Clone(w.drawn)
}

// CurrentBatch is the 1-based number of the open batch, or 0 when every
// batch is full.
func (w *Wheel) CurrentBatch() int {
	if w.current >= len(w.batches) {
		return 0
	}
	return w.current + 1
}

func (w *Wheel) Done() bool {
	return len(w.remaining) == 0
}

// Spin picks a remaining rider uniformly at random. The rider stays on the
// wheel until confirmed.
func (w *Wheel) Spin(rng *rand.Rand) (model.Participant, error) {
	if len(w.remaining) == 0 {
		return model.Participant{}, ErrWheelEmpty
	}
	if len(w.remaining) == 1 {
		return w.remaining[0], nil
	}
	return w.remaining[rng.Intn(len(w.remaining))], nil
}

// Confirm removes the rider from the wheel and places it in the open batch.
// It returns the batch number the rider landed in.
func (w *Wheel) Confirm(riderID int) (int, error) {
	idx := slices.IndexFunc(w.remaining, func(p model.Participant) bool { return p.ID == riderID })
	if idx < 0 {
		return 0, fmt.Errorf("confirm %d: %w", riderID, ErrNotOnWheel)
	}
	target := w.current
	if target >= len(w.batches) {
		// every batch is full; the last batch takes the rest
		target = len(w.batches) - 1
	}
	w.remaining = slices.Delete(w.remaining, idx, idx+1)
	w.batches[target] = append(w.batches[target], riderID)
	w.drawn = append(w.drawn, riderID)
	w.advance()
	return target + 1, nil
}

// Replay confirms the given ids in order.
func (w *Wheel) Replay(order []int) error {
	for _, id := range order {
		if _, err := w.Confirm(id); err != nil {
			return err
		}
	}
	return nil
}

// Draw spins and confirms in one step.
func (w *Wheel) Draw(rng *rand.Rand) (model.Participant, int, error) {
	p, err := w.Spin(rng)
	if err != nil {
		return model.Participant{}, 0, err
	}
	batch, err := w.Confirm(p.ID)
	if err != nil {
		return model.Participant{}, 0, err
	}
	return p, batch, nil
}

// Assignments returns the rider ids of every batch, indexed by batch number - 1.
func (w *Wheel) Assignments() [][]int {
	out := make([][]int, len(w.batches))
	for i, ids := range w.batches {
		out[i] = slices.Clone(ids)
	}
	return out
}

// Capacities returns the size limit of every batch.
func (w *Wheel) Capacities() []int {
	return slices.Clone(w.capacities)
}
