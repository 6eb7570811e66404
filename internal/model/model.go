package model

import (
	"strings"
	"time"
)

type Category string
type PaymentMethod string
type Moto string

const (
	CategoryBoy  Category = "boy"
	CategoryGirl Category = "girl"

	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"

	Moto1 Moto = "moto1"
	Moto2 Moto = "moto2"
)

func (c Category) Valid() bool {
	return c == CategoryBoy || c == CategoryGirl
}

func ParseMoto(raw string) (Moto, bool) {
	switch Moto(strings.ToLower(strings.TrimSpace(raw))) {
	case Moto1:
		return Moto1, true
	case Moto2:
		return Moto2, true
	}
	return "", false
}

type Competition struct {
	ID          int
	Name        string
	Date        time.Time
	Description string
	Category    Category
	Fee         int
	Quota       int
	BatchCount  int
}

type SessionPoint struct {
	Session   int
	Finish    int
	Point     int
	Penalty   int
	MatchName string
}

// HasFinish reports whether a finish position was recorded. Positions start at 1.
func (s SessionPoint) HasFinish() bool {
	return s.Finish > 0
}

type Participant struct {
	ID            int
	CompetitionID int
	Name          string
	Category      Category
	Plate         string
	Community     string
	Phone         string
	PaymentMethod PaymentMethod
	Paid          bool
	Batch         int
	Point1        int
	Point2        int
	Penalty       int
	Sessions      []SessionPoint
}

func (p Participant) Session(n int) (SessionPoint, bool) {
	for _, s := range p.Sessions {
		if s.Session == n {
			return s, true
		}
	}
	return SessionPoint{}, false
}

// Finish returns the recorded finish of session n, or 0.
func (p Participant) Finish(n int) int {
	s, _ := p.Session(n)
	return s.Finish
}

func (p Participant) MatchName(n int) string {
	s, _ := p.Session(n)
	return strings.TrimSpace(s.MatchName)
}

// CumulativePoints is the seeding total of both motos. Lower is better.
// Session points are left out: they are recorded after the pools were raced.
func (p Participant) CumulativePoints() int {
	return p.Point1 + p.Point2
}

func (p Participant) HasMotoPoints() bool {
	return p.Point1 > 0 || p.Point2 > 0
}

func PaidOnly(participants []Participant) []Participant {
	out := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if p.Paid {
			out = append(out, p)
		}
	}
	return out
}

type Registration struct {
	Name          string
	Plate         string
	Community     string
	Phone         string
	PaymentMethod PaymentMethod
	Category      Category
}

type MotoResult struct {
	ParticipantID int
	Finish        int
	Point         int
	Penalty       int
}

type SessionResult struct {
	ParticipantID int
	Session       int
	Finish        int
	Penalty       int
}

type Message struct {
	ID        int
	Name      string
	Email     string
	Body      string
	CreatedAt time.Time
}
