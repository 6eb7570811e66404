package bracket

import (
	"cmp"
	"slices"

	"github.com/Panz66/febw/internal/model"
)

type Pool int

const (
	Primary Pool = iota
	Secondary
)

func (p Pool) String() string {
	if p == Secondary {
		return "Sekunder"
	}
	return "Utama"
}

// SortByPoints returns a copy sorted by cumulative points ascending.
// The sort is stable: riders with equal points keep their relative order.
func SortByPoints(riders []model.Participant) []model.Participant {
	sorted := slices.Clone(riders)
	slices.SortStableFunc(sorted, func(a, b model.Participant) int {
		return cmp.Compare(a.CumulativePoints(), b.CumulativePoints())
	})
	return sorted
}

// SplitPool sorts one batch by points and cuts it at ceil(len/2).
// The better half is the primary pool.
func SplitPool(riders []model.Participant) (primary, secondary []model.Participant) {
	sorted := SortByPoints(riders)
	half := (len(sorted) + 1) / 2
	return sorted[:half:half], sorted[half:]
}

// SplitPools splits every batch and concatenates the halves in batch order.
func SplitPools(batches []Batch) (primary, secondary []model.Participant) {
	primary = []model.Participant{}
	secondary = []model.Participant{}
	for _, b := range batches {
		p, s := SplitPool(b.Riders)
		primary = append(primary, p...)
		secondary = append(secondary, s...)
	}
	return primary, secondary
}

// Ranks returns the 1-based rank of every rider of a batch in its
// cumulative point order, aligned with the input slice.
func Ranks(riders []model.Participant) []int {
	idx := make([]int, len(riders))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(riders[a].CumulativePoints(), riders[b].CumulativePoints())
	})
	ranks := make([]int, len(riders))
	for rank, i := range idx {
		ranks[i] = rank + 1
	}
	return ranks
}
