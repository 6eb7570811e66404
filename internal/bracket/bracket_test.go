package bracket

import (
	"testing"

	"github.com/Panz66/febw/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eightRiders() []model.Participant {
	return []model.Participant{
		rider(1, 1, 4),
		rider(2, 1, 3),
		withSession(rider(3, 1, 2), 1, 3, 0, ""),
		withSession(rider(4, 1, 1), 1, 2, 0, ""),
		withSession(rider(5, 2, 1), 1, 0, 0, "Heat A"),
		withSession(rider(6, 2, 2), 1, 1, 0, ""),
		rider(7, 2, 3),
		rider(8, 2, 4),
	}
}

func TestBuild_TwoBatchesOfFour(t *testing.T) {
	riders := eightRiders()
	riders[2] = withSession(riders[2], 2, 0, 0, "Final")
	competition := model.Competition{ID: 3, Name: "Pushbike Cup", BatchCount: 2}

	b, err := Build(competition, riders)
	require.NoError(t, err)
	require.Len(t, b.Batches, 2)
	assert.Empty(t, b.Unassigned)

	gate1, gate2 := []int{}, []int{}
	for _, e := range b.Batches[0].Entries {
		gate1 = append(gate1, e.Gate.Gate1)
		gate2 = append(gate2, e.Gate.Gate2)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, gate1)
	assert.Equal(t, []int{3, 4, 1, 2}, gate2)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(b.Batches[0].Riders()))
	assert.Equal(t, 4, b.Batches[0].Entries[0].Rank)
	assert.Equal(t, 1, b.Batches[0].Entries[3].Rank)

	assert.Equal(t, [][]int{{4, 5, 3, 6}}, matchIDs(b.Session1.Primary))
	assert.Equal(t, [][]int{{2, 7, 1, 8}}, matchIDs(b.Session1.Secondary))
	assert.Equal(t, "Heat A", b.Session1.Primary[0].Name)
	assert.Equal(t, "", b.Session1.Secondary[0].Name)

	assert.Equal(t, [][]int{{6, 4, 3, 5}}, matchIDs(b.Session2.Primary))
	assert.Equal(t, [][]int{{2, 1, 7, 8}}, matchIDs(b.Session2.Secondary), "no finishes keep pool order")
	assert.Equal(t, "Final", b.Session2.Primary[0].Name)
	assert.Equal(t, 2, b.Session2.Primary[0].Session)

	feeders := b.Progression.Feeders(b.Session2.Primary[0])
	require.Len(t, feeders, 1)
	assert.Equal(t, "S1-Utama-0", feeders[0].Match.ID())
	assert.Equal(t, 4, feeders[0].Riders)

	assert.Equal(t, Session1Seeded, b.Stage)
	assert.Equal(t, b.Session2, b.Round(2))
	assert.Len(t, b.Session1.Matches(), 2)
}

func TestBuild_TotalPointWithPenalty(t *testing.T) {
	p := rider(1, 1, 5)
	p.Point2 = 3
	p = withSession(p, 2, 1, 2, "")
	assert.Equal(t, 10, TotalPoint(p, 2))
}

func TestBuild_NoSession2Finish(t *testing.T) {
	b, err := Build(model.Competition{BatchCount: 2}, eightRiders())
	require.NoError(t, err)

	for _, m := range b.Session2.Matches() {
		_, ok := Winner(m.Riders, 2)
		assert.False(t, ok)
		assert.Equal(t, NoWinner, WinnerName(m.Riders, 2))
	}
	assert.Empty(t, SessionWinners(eightRiders(), 2))
}

func TestBuild_SingleBatchOfFive(t *testing.T) {
	riders := []model.Participant{}
	for i := 1; i <= 5; i++ {
		riders = append(riders, rider(i, 1, i))
	}
	b, err := Build(model.Competition{BatchCount: 1}, riders)
	require.NoError(t, err)

	require.Len(t, b.Batches, 1)
	require.Len(t, b.Session1.Primary, 1)
	require.Len(t, b.Session1.Secondary, 1)
	assert.Equal(t, []int{1, 2, 3}, ids(b.Session1.Primary[0].Riders))
	assert.Equal(t, []int{4, 5}, ids(b.Session1.Secondary[0].Riders))

	gate2 := []int{}
	for _, e := range b.Batches[0].Entries {
		gate2 = append(gate2, e.Gate.Gate2)
	}
	assert.Equal(t, []int{3, 4, 5, 1, 2}, gate2)
}

func TestBuild_SingleRiderHasNoGate2(t *testing.T) {
	b, err := Build(model.Competition{BatchCount: 2}, []model.Participant{rider(1, 1, 0), rider(2, 0, 0)})
	require.NoError(t, err)

	assert.False(t, b.Batches[0].Entries[0].Gate.HasGate2())
	assert.Empty(t, b.Batches[1].Entries)
	assert.Equal(t, []int{2}, ids(b.Unassigned))
	assert.Equal(t, [][]int{{1}}, matchIDs(b.Session1.Primary))
	assert.Empty(t, b.Session1.Secondary, "empty matches are dropped")
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(model.Competition{}, eightRiders())
	assert.ErrorIs(t, err, ErrNoBatches)
}

func TestBuild_Empty(t *testing.T) {
	b, err := Build(model.Competition{BatchCount: 3}, nil)
	require.NoError(t, err)
	assert.Len(t, b.Batches, 3)
	assert.Empty(t, b.Session1.Matches())
	assert.Empty(t, b.Session2.Matches())
	assert.Equal(t, Registered, b.Stage)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	riders := eightRiders()
	before := ids(riders)
	_, err := Build(model.Competition{BatchCount: 2}, riders)
	require.NoError(t, err)
	assert.Equal(t, before, ids(riders))
}

func TestProgression_SplitsAcrossMatches(t *testing.T) {
	pool := []model.Participant{}
	for i := 1; i <= 8; i++ {
		pool = append(pool, withSession(rider(i, (i-1)/2+1, 0), 1, 9-i, 0, ""))
	}
	s1 := BuildMatches(pool, []int{1, 2, 3, 4})
	s2, err := Reseed(pool, s1)
	require.NoError(t, err)

	p, err := NewProgression(toMatches(s1, 1, Primary), toMatches(s2, 2, Primary))
	require.NoError(t, err)

	assert.Equal(t, [][]int{{8, 7, 6, 5}, {4, 3, 2, 1}}, [][]int{ids(s2[0]), ids(s2[1])})

	feeders := p.Feeders(toMatches(s2, 2, Primary)[0])
	require.Len(t, feeders, 2)
	assert.Equal(t, "S1-Utama-0", feeders[0].Match.ID())
	assert.Equal(t, 2, feeders[0].Riders)
	assert.Equal(t, "S1-Utama-1", feeders[1].Match.ID())
	assert.Equal(t, 2, feeders[1].Riders)
}

func TestStageOf(t *testing.T) {
	tests := []struct {
		name   string
		riders []model.Participant
		want   Stage
	}{
		{"no batch", []model.Participant{rider(1, 0, 0)}, Registered},
		{"batched", []model.Participant{rider(1, 1, 0)}, BatchesAssigned},
		{"moto points", []model.Participant{rider(1, 1, 3), rider(2, 1, 0)}, Session1Seeded},
		{"session 1 done", []model.Participant{withSession(rider(1, 1, 3), 1, 1, 0, "")}, Session1Finished},
		{"session 2 named", []model.Participant{
			withSession(withSession(rider(1, 1, 3), 1, 1, 0, ""), 2, 0, 0, "Final"),
		}, Session2Seeded},
		{"session 2 done", []model.Participant{
			withSession(withSession(rider(1, 1, 3), 1, 1, 0, ""), 2, 1, 0, ""),
		}, Session2Finished},
		{"final", []model.Participant{
			withSession(withSession(rider(1, 1, 3), 1, 1, 0, ""), 2, 1, 0, "Final"),
		}, Finalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StageOf(tt.riders))
		})
	}
	assert.Equal(t, "Final", Finalized.String())
}

func TestBuild_SessionOnePoolsSurviveRecordedFinishes(t *testing.T) {
	competition := model.Competition{ID: 4, Name: "Seri Malang", BatchCount: 2}
	riders := []model.Participant{rider(1, 1, 0), rider(2, 1, 0), rider(3, 2, 0), rider(4, 2, 0)}

	before, err := Build(competition, riders)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 3}}, matchIDs(before.Session1.Primary))
	assert.Equal(t, [][]int{{2, 4}}, matchIDs(before.Session1.Secondary))

	finishes := map[int]int{1: 2, 3: 1, 2: 1, 4: 2}
	recorded := make([]model.Participant, len(riders))
	for i, p := range riders {
		p.Sessions = []model.SessionPoint{{Session: 1, Finish: finishes[p.ID], Point: finishes[p.ID]}}
		recorded[i] = p
	}

	after, err := Build(competition, recorded)
	require.NoError(t, err)
	assert.Equal(t, matchIDs(before.Session1.Primary), matchIDs(after.Session1.Primary))
	assert.Equal(t, matchIDs(before.Session1.Secondary), matchIDs(after.Session1.Secondary))
	assert.Equal(t, [][]int{{3, 1}}, matchIDs(after.Session2.Primary))
	assert.Equal(t, [][]int{{2, 4}}, matchIDs(after.Session2.Secondary))
}

func TestBuild_MatchOrderFollowsBatchNumbers(t *testing.T) {
	competition := model.Competition{ID: 5, BatchCount: 3}
	riders := []model.Participant{rider(1, 3, 1), rider(2, 1, 1), rider(3, 3, 2), rider(4, 1, 2), rider(5, 9, 1)}

	b, err := Build(competition, riders)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, ids(b.Unassigned))
	assert.Equal(t, []int{1, 3}, BatchOrder(append(b.Batches[0].Riders(), b.Batches[2].Riders()...)))
	assert.Equal(t, [][]int{{2, 1}}, matchIDs(b.Session1.Primary))
	assert.Equal(t, [][]int{{4, 3}}, matchIDs(b.Session1.Secondary))
}
