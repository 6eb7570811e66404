package store

import (
	"context"
	"errors"

	"github.com/Panz66/febw/internal/model"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	ListCompetitions(ctx context.Context) ([]model.Competition, error)
	GetCompetition(ctx context.Context, id int) (model.Competition, error)
	ListParticipants(ctx context.Context, competitionID int) ([]model.Participant, error)
	RegisterParticipant(ctx context.Context, competitionID int, reg model.Registration) error
	SetPaymentStatus(ctx context.Context, competitionID, participantID int, paid bool) error
	AssignBatch(ctx context.Context, competitionID, batch int, participantIDs []int) error
	SaveMotoResults(ctx context.Context, competitionID int, moto model.Moto, results []model.MotoResult) error
	SaveSessionResults(ctx context.Context, competitionID int, results []model.SessionResult) error
	SetMatchName(ctx context.Context, competitionID, participantID, session int, name string) error

	ListMessages(ctx context.Context) ([]model.Message, error)
	CreateMessage(ctx context.Context, msg model.Message) error
}
