package store

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Panz66/febw/internal/model"
)

// MemoryStore keeps everything in process. It backs local development and
// tests when no backend URL is configured.
type MemoryStore struct {
	mu           sync.RWMutex
	competitions map[int]model.Competition
	participants map[int][]model.Participant
	messages     []model.Message
	nextID       int
}

func NewMemoryStore() *MemoryStore {
	s := NewEmptyMemoryStore()
	if strings.ToLower(strings.TrimSpace(os.Getenv("APP"))) != "prod" {
		seedData(s)
	}
	return s
}

func NewEmptyMemoryStore() *MemoryStore {
	return &MemoryStore{
		competitions: make(map[int]model.Competition),
		participants: make(map[int][]model.Participant),
		nextID:       1,
	}
}

func (s *MemoryStore) id() int {
	id := s.nextID
	s.nextID++
	return id
}

// AddCompetition inserts a competition and returns it with its id.
func (s *MemoryStore) AddCompetition(c model.Competition) model.Competition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.id()
	}
	s.competitions[c.ID] = c
	return c
}

// AddParticipant inserts a participant as the backend would hold it.
func (s *MemoryStore) AddParticipant(p model.Participant) model.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.id()
	}
	p.Sessions = slices.Clone(p.Sessions)
	s.participants[p.CompetitionID] = append(s.participants[p.CompetitionID], p)
	return p
}

func (s *MemoryStore) ListCompetitions(ctx context.Context) ([]model.Competition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Competition, 0, len(s.competitions))
	for _, c := range s.competitions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCompetition(ctx context.Context, id int) (model.Competition, error) {
	if err := ctx.Err(); err != nil {
		return model.Competition{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.competitions[id]
	if !ok {
		return model.Competition{}, fmt.Errorf("competition %d: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *MemoryStore) ListParticipants(ctx context.Context, competitionID int) ([]model.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.competitions[competitionID]; !ok {
		return nil, fmt.Errorf("competition %d: %w", competitionID, ErrNotFound)
	}
	rows := s.participants[competitionID]
	out := make([]model.Participant, len(rows))
	for i, p := range rows {
		p.Sessions = slices.Clone(p.Sessions)
		out[i] = p
	}
	return out, nil
}

func (s *MemoryStore) RegisterParticipant(ctx context.Context, competitionID int, reg model.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.competitions[competitionID]
	if !ok {
		return fmt.Errorf("competition %d: %w", competitionID, ErrNotFound)
	}
	category := reg.Category
	if category == "" {
		category = c.Category
	}
	s.participants[competitionID] = append(s.participants[competitionID], model.Participant{
		ID:            s.id(),
		CompetitionID: competitionID,
		Name:          reg.Name,
		Category:      category,
		Plate:         reg.Plate,
		Community:     reg.Community,
		Phone:         reg.Phone,
		PaymentMethod: reg.PaymentMethod,
	})
	return nil
}

// update applies fn to one participant under the write lock.
func (s *MemoryStore) update(ctx context.Context, competitionID, participantID int, fn func(p *model.Participant)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.participants[competitionID]
	for i := range rows {
		if rows[i].ID == participantID {
			fn(&rows[i])
			return nil
		}
	}
	return fmt.Errorf("participant %d of competition %d: %w", participantID, competitionID, ErrNotFound)
}

func (s *MemoryStore) SetPaymentStatus(ctx context.Context, competitionID, participantID int, paid bool) error {
	return s.update(ctx, competitionID, participantID, func(p *model.Participant) {
		p.Paid = paid
	})
}

func (s *MemoryStore) AssignBatch(ctx context.Context, competitionID, batch int, participantIDs []int) error {
	for _, id := range participantIDs {
		err := s.update(ctx, competitionID, id, func(p *model.Participant) {
			p.Batch = batch
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) SaveMotoResults(ctx context.Context, competitionID int, moto model.Moto, results []model.MotoResult) error {
	for _, r := range results {
		err := s.update(ctx, competitionID, r.ParticipantID, func(p *model.Participant) {
			if moto == model.Moto2 {
				p.Point2 = r.Point
			} else {
				p.Point1 = r.Point
			}
			p.Penalty = r.Penalty
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func sessionRecord(p *model.Participant, session int) *model.SessionPoint {
	for i := range p.Sessions {
		if p.Sessions[i].Session == session {
			return &p.Sessions[i]
		}
	}
	p.Sessions = append(p.Sessions, model.SessionPoint{Session: session})
	return &p.Sessions[len(p.Sessions)-1]
}

func (s *MemoryStore) SaveSessionResults(ctx context.Context, competitionID int, results []model.SessionResult) error {
	for _, r := range results {
		err := s.update(ctx, competitionID, r.ParticipantID, func(p *model.Participant) {
			rec := sessionRecord(p, r.Session)
			rec.Finish = r.Finish
			rec.Penalty = r.Penalty
			rec.Point = r.Finish + r.Penalty
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) SetMatchName(ctx context.Context, competitionID, participantID, session int, name string) error {
	return s.update(ctx, competitionID, participantID, func(p *model.Participant) {
		sessionRecord(p, session).MatchName = strings.TrimSpace(name)
	})
}

func (s *MemoryStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.messages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, msg model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.ID = s.id()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, msg)
	return nil
}

var (
	seedFirstNames = []string{
		"Raka", "Bima", "Arka", "Dafa", "Kenzo", "Gibran", "Rayyan", "Alif", "Fathan",
		"Zidan", "Haikal", "Athar", "Naufal", "Rafif", "Abim", "Elang", "Sakha", "Yusuf",
	}
	seedGirlNames = []string{
		"Aira", "Kayla", "Nadia", "Alesha", "Queen", "Zahra", "Cinta", "Kirana", "Shanum",
	}
	seedCommunities = []string{"Pushbike Bandung", "Balance Bike Jogja", "Kids Racer Solo", "Little Rider Semarang"}
)

func seedData(s *MemoryStore) {
	rng := rand.New(rand.NewSource(42))
	now := time.Now()

	boys := s.AddCompetition(model.Competition{
		Name:        "Pushbike Championship Seri 1",
		Date:        now.AddDate(0, 0, -2).Truncate(24 * time.Hour),
		Description: "Kelas 3-5 tahun, dua moto dan dua sesi final.",
		Category:    model.CategoryBoy,
		Fee:         150000,
		Quota:       24,
		BatchCount:  3,
	})
	girls := s.AddCompetition(model.Competition{
		Name:        "Pushbike Girls Fun Race",
		Date:        now.AddDate(0, 0, 12).Truncate(24 * time.Hour),
		Description: "Balapan santai untuk rider putri.",
		Category:    model.CategoryGirl,
		Fee:         100000,
		Quota:       16,
		BatchCount:  2,
	})

	// finished motos, session 1 done, session 2 under way
	riders := make([]model.Participant, 0, len(seedFirstNames))
	for i, name := range seedFirstNames {
		p := model.Participant{
			CompetitionID: boys.ID,
			Name:          name,
			Category:      model.CategoryBoy,
			Plate:         fmt.Sprintf("%d", 10+i*3),
			Community:     seedCommunities[rng.Intn(len(seedCommunities))],
			Phone:         fmt.Sprintf("08%010d", rng.Int63n(1e10)),
			PaymentMethod: model.PaymentTransfer,
			Paid:          i != 5,
			Batch:         i%boys.BatchCount + 1,
		}
		if p.Paid {
			p.Point1 = 1 + rng.Intn(6)
			p.Point2 = 1 + rng.Intn(6)
		}
		if i%4 == 0 {
			p.PaymentMethod = model.PaymentCash
		}
		riders = append(riders, p)
	}
	perm := rng.Perm(len(riders))
	for finish, idx := range perm {
		if !riders[idx].Paid {
			continue
		}
		riders[idx].Sessions = append(riders[idx].Sessions, model.SessionPoint{
			Session: 1,
			Finish:  finish%6 + 1,
			Point:   finish%6 + 1,
		})
	}
	for _, p := range riders {
		s.AddParticipant(p)
	}

	for i, name := range seedGirlNames {
		s.AddParticipant(model.Participant{
			CompetitionID: girls.ID,
			Name:          name,
			Category:      model.CategoryGirl,
			Plate:         fmt.Sprintf("G%d", i+1),
			Community:     seedCommunities[rng.Intn(len(seedCommunities))],
			Phone:         fmt.Sprintf("08%010d", rng.Int63n(1e10)),
			PaymentMethod: model.PaymentTransfer,
			Paid:          i%3 != 0,
		})
	}

	s.messages = append(s.messages, model.Message{
		ID:        s.id(),
		Name:      "Ibu Rina",
		Email:     "rina@example.com",
		Body:      "Apakah ada kelas untuk usia 2 tahun?",
		CreatedAt: now.Add(-3 * time.Hour),
	})
}
