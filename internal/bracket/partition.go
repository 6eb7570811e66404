package bracket

import (
	"errors"
	"slices"

	"github.com/Panz66/febw/internal/model"
)

var (
	ErrNoBatches = errors.New("batch count must be at least 1")
)

// A batch of riders sharing the same persisted batch number.
type Batch struct {
	Number int
	Riders []model.Participant
}

// GroupByBatch groups riders into batches 1..batchCount by their persisted
// batch field. Input order is kept inside every batch. Riders without a
// batch or with a batch outside the range are returned as unassigned.
func GroupByBatch(riders []model.Participant, batchCount int) ([]Batch, []model.Participant, error) {
	if batchCount < 1 {
		return nil, nil, ErrNoBatches
	}
	batches := make([]Batch, batchCount)
	for i := range batches {
		batches[i].Number = i + 1
	}
	unassigned := []model.Participant{}
	for _, p := range riders {
		if p.Batch < 1 || p.Batch > batchCount {
			unassigned = append(unassigned, p)
			continue
		}
		batches[p.Batch-1].Riders = append(batches[p.Batch-1].Riders, p)
	}
	return batches, unassigned, nil
}

// BatchCapacities splits total riders over batchCount batches. No batch gets
// more than ceil(total/batchCount), sizes differ by at most one and the
// earlier batches take the remainder.
func BatchCapacities(total, batchCount int) ([]int, error) {
	if batchCount < 1 {
		return nil, ErrNoBatches
	}
	if total < 0 {
		total = 0
	}
	base := total / batchCount
	rest := total % batchCount
	capacities := make([]int, batchCount)
	for i := range capacities {
		capacities[i] = base
		if i < rest {
			capacities[i]++
		}
	}
	return capacities, nil
}

// MaxBatchSize is ceil(total/batchCount).
func MaxBatchSize(total, batchCount int) int {
	if batchCount < 1 || total <= 0 {
		return 0
	}
	return (total + batchCount - 1) / batchCount
}

// BatchOrder returns the distinct batch numbers carried by the riders in
// ascending order. Unassigned riders are ignored.
func BatchOrder(riders []model.Participant) []int {
	order := []int{}
	for _, p := range riders {
		if p.Batch < 1 || slices.Contains(order, p.Batch) {
			continue
		}
		order = append(order, p.Batch)
	}
	slices.Sort(order)
	return order
}
