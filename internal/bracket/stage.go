package bracket

import "github.com/Panz66/febw/internal/model"

// Stage is an advisory label for how far a competition has progressed.
// Nothing is blocked on it.
type Stage int

const (
	Registered Stage = iota
	BatchesAssigned
	Session1Seeded
	Session1Finished
	Session2Seeded
	Session2Finished
	Finalized
)

var stageNames = [...]string{
	"Pendaftaran",
	"Batch ditentukan",
	"Sesi 1 siap",
	"Sesi 1 selesai",
	"Sesi 2 siap",
	"Sesi 2 selesai",
	"Final",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "?"
	}
	return stageNames[s]
}

// StageOf derives the stage from the batched riders of a snapshot.
func StageOf(riders []model.Participant) Stage {
	batched := []model.Participant{}
	for _, p := range riders {
		if p.Batch > 0 {
			batched = append(batched, p)
		}
	}
	if len(batched) == 0 {
		return Registered
	}

	var moto, s1, s2, s2Started, s2Named int
	for _, p := range batched {
		if p.HasMotoPoints() {
			moto++
		}
		if p.Finish(1) > 0 {
			s1++
		}
		if sp, ok := p.Session(2); ok {
			s2Started++
			if sp.HasFinish() {
				s2++
			}
			if p.MatchName(2) != "" {
				s2Named++
			}
		}
	}
	n := len(batched)
	switch {
	case s2 == n && s2Named == n:
		return Finalized
	case s2 == n:
		return Session2Finished
	case s1 == n && s2Started > 0:
		return Session2Seeded
	case s1 == n:
		return Session1Finished
	case moto > 0 || s1 > 0:
		return Session1Seeded
	}
	return BatchesAssigned
}
