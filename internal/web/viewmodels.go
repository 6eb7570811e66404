package web

import (
	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
)

type BaseView struct {
	Title        string
	IsAdmin      bool
	AdminName    string
	IsDev        bool
	FlashSuccess string
	FlashError   string
	Warning      string
	SubmissionID string
}

type AuthView struct {
	BaseView
	Username string
}

// CompetitionCard is one competition on the dashboard and list pages.
type CompetitionCard struct {
	Competition model.Competition
	Stage       bracket.Stage
	Registered  int
	Paid        int
	HasResults  bool
	Winners     WinnersView
	ExportURL   string
}

type DashboardView struct {
	BaseView
	Cards []CompetitionCard
}

type RegistrationView struct {
	BaseView
	Competitions []model.Competition
	Selected     int
	Form         model.Registration
}

type ContactView struct {
	BaseView
	Form model.Message
}

type ResultsListView struct {
	BaseView
	Cards []CompetitionCard
}

type MatchRow struct {
	Rider  model.Participant
	Finish string
	Total  int
}

type MatchView struct {
	Match   bracket.Match
	Label   string
	Winner  string
	Rows    []MatchRow
	Feeders []bracket.Feeder
}

type RoundView struct {
	Session   int
	Primary   []MatchView
	Secondary []MatchView
}

func (r RoundView) Empty() bool {
	return len(r.Primary) == 0 && len(r.Secondary) == 0
}

type ResultsView struct {
	BaseView
	Competition model.Competition
	Stage       bracket.Stage
	Batches     []bracket.SeededBatch
	Unassigned  []model.Participant
	Session1    RoundView
	Session2    RoundView
	Winners     WinnersView
	Modes       []DisplayMode
	LivePath    string
	SocketPath  string
}

type AdminIndexView struct {
	BaseView
	Cards []CompetitionCard
}

type MessagesView struct {
	BaseView
	Messages []model.Message
}

type PaymentsView struct {
	BaseView
	Competition  model.Competition
	Participants []model.Participant
	PaidCount    int
}

type ParticipantsView struct {
	BaseView
	Competition  model.Competition
	Participants []model.Participant
}

type WheelBatch struct {
	Number   int
	Capacity int
	Riders   []model.Participant
	Open     bool
}

type WheelView struct {
	BaseView
	Competition  model.Competition
	Remaining    []model.Participant
	Batches      []WheelBatch
	Order        string
	Drawn        int
	Last         *model.Participant
	LastBatch    int
	CurrentBatch int
	Done         bool
}

type SeedingView struct {
	BaseView
	Competition model.Competition
	Stage       bracket.Stage
	Batches     []bracket.SeededBatch
	Unassigned  []model.Participant
	ExportURL   string
	CanPublish  bool
}

type MotoCell struct {
	Plate   string
	Penalty int
}

type MotoBatch struct {
	Number int
	Rows   []MotoCell
}

type MotoView struct {
	BaseView
	Competition model.Competition
	Moto        model.Moto
	Batches     []MotoBatch
}

type SessionEntry struct {
	Rider   model.Participant
	Finish  int
	Penalty int
}

type SessionMatch struct {
	CompetitionID int
	SubmissionID  string
	Match         bracket.Match
	Entries       []SessionEntry
}

type SessionView struct {
	BaseView
	Competition model.Competition
	Session     int
	Stage       bracket.Stage
	Primary     []SessionMatch
	Secondary   []SessionMatch
}
