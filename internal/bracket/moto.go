package bracket

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Panz66/febw/internal/model"
)

var (
	ErrUnknownPlate   = errors.New("unknown plate number")
	ErrDuplicatePlate = errors.New("plate number entered twice")
)

// One line of the moto result sheet. Rows are typed in finish order.
type MotoRow struct {
	Plate   string
	Penalty int
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ScoreMoto turns the per-batch result sheets into moto results. Empty rows
// are skipped; the finish of a filled row is its position among the filled
// rows of its batch and the point is finish plus penalty.
func ScoreMoto(riders []model.Participant, sheets [][]MotoRow) ([]model.MotoResult, error) {
	byPlate := make(map[string]model.Participant, len(riders))
	for _, p := range riders {
		if plate := normalizePlate(p.Plate); plate != "" {
			byPlate[plate] = p
		}
	}
	seen := map[string]bool{}
	results := []model.MotoResult{}
	for b, rows := range sheets {
		finish := 0
		for _, row := range rows {
			plate := normalizePlate(row.Plate)
			if plate == "" {
				continue
			}
			p, ok := byPlate[plate]
			if !ok {
				return nil, fmt.Errorf("batch %d plate %q: %w", b+1, row.Plate, ErrUnknownPlate)
			}
			if seen[plate] {
				return nil, fmt.Errorf("batch %d plate %q: %w", b+1, row.Plate, ErrDuplicatePlate)
			}
			seen[plate] = true
			finish++
			penalty := max(row.Penalty, 0)
			results = append(results, model.MotoResult{
				ParticipantID: p.ID,
				Finish:        finish,
				Point:         finish + penalty,
				Penalty:       penalty,
			})
		}
	}
	return results, nil
}

// MotoPoint returns the stored point of the given moto.
func MotoPoint(p model.Participant, moto model.Moto) int {
	if moto == model.Moto2 {
		return p.Point2
	}
	return p.Point1
}

// MotoSheet prefills the result sheet of a batch from stored points: riders
// with a point come first in point order, the remaining rows stay empty.
func MotoSheet(batch []model.Participant, moto model.Moto) []MotoRow {
	scored := []model.Participant{}
	for _, p := range batch {
		if MotoPoint(p, moto) > 0 {
			scored = append(scored, p)
		}
	}
	slices.SortStableFunc(scored, func(a, b model.Participant) int {
		return cmp.Compare(MotoPoint(a, moto), MotoPoint(b, moto))
	})
	rows := make([]MotoRow, len(batch))
	for i, p := range scored {
		rows[i] = MotoRow{Plate: p.Plate, Penalty: p.Penalty}
	}
	return rows
}
