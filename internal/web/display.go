package web

import (
	"strings"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
)

// DisplayMode picks how the winners of a session are shown.
type DisplayMode string

const (
	SingleWinner   DisplayMode = "single-winner"
	GroupedByMatch DisplayMode = "grouped-by-match"
	Carousel       DisplayMode = "carousel"
)

func parseDisplayMode(raw string, fallback DisplayMode) DisplayMode {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(raw))) {
	case SingleWinner:
		return SingleWinner
	case GroupedByMatch:
		return GroupedByMatch
	case Carousel:
		return Carousel
	}
	return fallback
}

type WinnersView struct {
	Mode    DisplayMode
	Session int
	Overall string
	Groups  []bracket.MatchWinner
}

func (v WinnersView) Empty() bool {
	return len(v.Groups) == 0
}

func (v WinnersView) IsSingle() bool   { return v.Mode == SingleWinner }
func (v WinnersView) IsCarousel() bool { return v.Mode == Carousel }

func buildWinnersView(mode DisplayMode, riders []model.Participant, session int) WinnersView {
	return WinnersView{
		Mode:    mode,
		Session: session,
		Overall: bracket.WinnerName(riders, session),
		Groups:  bracket.SessionWinners(riders, session),
	}
}
