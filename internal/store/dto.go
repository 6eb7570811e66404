package store

import (
	"strings"
	"time"

	"github.com/Panz66/febw/internal/model"
)

type lombaDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"nama"`
	Date        string `json:"tanggal"`
	Description string `json:"deskripsi"`
	Category    string `json:"kategori"`
	Fee         int    `json:"biaya"`
	Quota       int    `json:"jumlahPeserta"`
	BatchCount  int    `json:"jumlahBatch"`
}

func (d lombaDTO) toModel() model.Competition {
	return model.Competition{
		ID:          d.ID,
		Name:        d.Name,
		Date:        parseTime(d.Date),
		Description: d.Description,
		Category:    model.Category(strings.ToLower(strings.TrimSpace(d.Category))),
		Fee:         d.Fee,
		Quota:       d.Quota,
		BatchCount:  d.BatchCount,
	}
}

type pointSesiDTO struct {
	Session   int     `json:"sesi"`
	Finish    *int    `json:"finish"`
	Point     *int    `json:"point"`
	Penalty   *int    `json:"penaltyPoint"`
	MatchName *string `json:"matchName"`
}

type pesertaDTO struct {
	ID            int            `json:"id_pendaftaran"`
	CompetitionID int            `json:"id_lomba"`
	Name          string         `json:"nama"`
	Category      string         `json:"kategori"`
	Plate         string         `json:"platNumber"`
	Community     string         `json:"community"`
	Phone         string         `json:"no_hp"`
	PaymentMethod string         `json:"metodePembayaran"`
	Paid          bool           `json:"statusPembayaran"`
	Batch         *int           `json:"batch"`
	Point1        *int           `json:"point1"`
	Point2        *int           `json:"point2"`
	Penalty       *int           `json:"penaltyPoint"`
	Sessions      []pointSesiDTO `json:"pointSesi"`
}

func (d pesertaDTO) toModel() model.Participant {
	p := model.Participant{
		ID:            d.ID,
		CompetitionID: d.CompetitionID,
		Name:          d.Name,
		Category:      model.Category(strings.ToLower(strings.TrimSpace(d.Category))),
		Plate:         strings.TrimSpace(d.Plate),
		Community:     d.Community,
		Phone:         d.Phone,
		PaymentMethod: model.PaymentMethod(d.PaymentMethod),
		Paid:          d.Paid,
		Batch:         deref(d.Batch),
		Point1:        deref(d.Point1),
		Point2:        deref(d.Point2),
		Penalty:       deref(d.Penalty),
	}
	seen := map[int]bool{}
	for _, s := range d.Sessions {
		// the backend may send the same session twice; the first record wins
		if seen[s.Session] {
			continue
		}
		seen[s.Session] = true
		sp := model.SessionPoint{
			Session: s.Session,
			Finish:  deref(s.Finish),
			Point:   deref(s.Point),
			Penalty: deref(s.Penalty),
		}
		if s.MatchName != nil {
			sp.MatchName = strings.TrimSpace(*s.MatchName)
		}
		p.Sessions = append(p.Sessions, sp)
	}
	return p
}

type sessionResultDTO struct {
	ParticipantID int `json:"pesertaId"`
	Session       int `json:"sesi"`
	Finish        int `json:"finish"`
	Penalty       int `json:"penaltyPoint"`
}

type pesanDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"nama"`
	Email     string `json:"email"`
	Body      string `json:"pesan"`
	CreatedAt string `json:"created_at"`
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// parseTime accepts the date shapes the backend sends. Unparseable values
// become the zero time.
func parseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
