package store

import (
	"context"
	"fmt"
	"strings"
)

// BatchSaveError reports which batches reached the backend before a save
// failed. Batches after the failing one were not attempted.
type BatchSaveError struct {
	Saved  []int
	Failed int
	Err    error
}

func (e *BatchSaveError) Error() string {
	saved := make([]string, len(e.Saved))
	for i, b := range e.Saved {
		saved[i] = fmt.Sprint(b)
	}
	if len(saved) == 0 {
		return fmt.Sprintf("save batch %d: %v", e.Failed, e.Err)
	}
	return fmt.Sprintf("save batch %d: %v (saved batches: %s)", e.Failed, e.Err, strings.Join(saved, ", "))
}

func (e *BatchSaveError) Unwrap() error {
	return e.Err
}

// SaveBatches posts every non-empty batch, one call per batch. assignments
// is indexed by batch number - 1.
func SaveBatches(ctx context.Context, s Store, competitionID int, assignments [][]int) error {
	saved := []int{}
	for i, ids := range assignments {
		if len(ids) == 0 {
			continue
		}
		if err := s.AssignBatch(ctx, competitionID, i+1, ids); err != nil {
			return &BatchSaveError{Saved: saved, Failed: i + 1, Err: err}
		}
		saved = append(saved, i+1)
	}
	return nil
}
