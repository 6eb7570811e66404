package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func demoStore() *store.MemoryStore {
	mem := store.NewEmptyMemoryStore()
	race := mem.AddCompetition(model.Competition{Name: "Seri Solo", Category: model.CategoryGirl, BatchCount: 2})
	names := []string{"Aira", "Kayla", "Nadia", "Alesha"}
	for i, name := range names {
		mem.AddParticipant(model.Participant{
			CompetitionID: race.ID,
			Name:          name,
			Plate:         string(rune('A' + i)),
			Paid:          true,
			Batch:         i%2 + 1,
			Point1:        i/2 + 1,
			Point2:        i/2 + 1,
		})
	}
	mem.AddParticipant(model.Participant{CompetitionID: race.ID, Name: "Zahra", Plate: "Z"})
	return mem
}

func run(t *testing.T, mem store.Store, args ...string) (string, error) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	var out bytes.Buffer
	app := newApp(&runner{out: &out, log: log, store: mem})
	err := app.Run(append([]string{"bracketctl"}, args...))
	return out.String(), err
}

func TestBracket_YAML(t *testing.T) {
	out, err := run(t, demoStore(), "bracket", "--lomba", "1")
	require.NoError(t, err)

	var doc bracketDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Seri Solo", doc.Competition)
	require.Len(t, doc.Batches, 2)
	assert.Equal(t, []string{"Aira", "Nadia"}, []string{doc.Batches[0].Riders[0].Name, doc.Batches[0].Riders[1].Name})
	assert.Equal(t, 2, doc.Batches[0].Riders[0].Gate2)
	require.Len(t, doc.Sessions, 2)
	assert.Equal(t, "S1-Utama-0", doc.Sessions[0].Matches[0].ID)
	assert.Equal(t, []string{"Aira #A", "Kayla #B"}, doc.Sessions[0].Matches[0].Riders)
	assert.NotContains(t, out, "Zahra")
	assert.True(t, strings.HasPrefix(out, "competition: Seri Solo\n"))
}

func TestBracket_Text(t *testing.T) {
	out, err := run(t, demoStore(), "bracket", "-l", "1", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Seri Solo")
	assert.Contains(t, out, "Batch 2")
	assert.Contains(t, out, "Utama - Match 1")

	_, err = run(t, demoStore(), "bracket", "-l", "1", "--format", "json")
	assert.ErrorContains(t, err, "unknown format")
}

func TestBracket_Errors(t *testing.T) {
	_, err := run(t, demoStore(), "bracket", "--lomba", "9")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, demoStore(), "bracket")
	assert.Error(t, err)
}

func TestWheel_DryRun(t *testing.T) {
	mem := store.NewEmptyMemoryStore()
	race := mem.AddCompetition(model.Competition{Name: "Undian", BatchCount: 2})
	for i := range 5 {
		mem.AddParticipant(model.Participant{CompetitionID: race.ID, Name: "Rider" + string(rune('A'+i)), Plate: string(rune('1' + i)), Paid: true})
	}

	first, err := run(t, mem, "wheel", "--lomba", "1", "--seed", "42")
	require.NoError(t, err)
	again, err := run(t, mem, "wheel", "--lomba", "1", "--seed", "42")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 5, strings.Count(first, "-> batch"))
	assert.Contains(t, first, "3/3")
	assert.Contains(t, first, "2/2")

	riders, err := mem.ListParticipants(t.Context(), race.ID)
	require.NoError(t, err)
	for _, p := range riders {
		assert.Zero(t, p.Batch, "dry run does not save")
	}
}

func TestWinners(t *testing.T) {
	mem := demoStore()
	out, err := run(t, mem, "winners", "--lomba", "1")
	require.NoError(t, err)
	assert.Equal(t, "Belum ada\n", out)

	ctx := t.Context()
	riders, err := mem.ListParticipants(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, mem.SaveSessionResults(ctx, 1, []model.SessionResult{
		{ParticipantID: riders[1].ID, Session: 2, Finish: 1},
		{ParticipantID: riders[0].ID, Session: 2, Finish: 2},
	}))
	for _, p := range riders[:2] {
		require.NoError(t, mem.SetMatchName(ctx, 1, p.ID, 2, "Final"))
	}

	out, err = run(t, mem, "winners", "--lomba", "1")
	require.NoError(t, err)
	assert.Equal(t, "Final: Kayla #B\n", out)

	_, err = run(t, mem, "winners", "--lomba", "1", "--session", "3")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, demoStore(), "hash-password", "rahasia")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia")))

	_, err = run(t, demoStore(), "hash-password")
	assert.Error(t, err)
}
