package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/export"
	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// dashboardFetchLimit bounds concurrent participant fetches.
const dashboardFetchLimit = 4

func (s *Server) baseView(r *http.Request, title string) BaseView {
	admin := adminFrom(r.Context())
	if admin == "" {
		admin, _ = s.currentAdmin(r)
	}
	return BaseView{
		Title:        title,
		IsAdmin:      admin != "",
		AdminName:    admin,
		IsDev:        !s.cfg.IsProd(),
		FlashSuccess: flashMessage(r.URL.Query().Get("notice")),
		SubmissionID: uuid.NewString(),
	}
}

func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func competitionID(r *http.Request) (int, error) {
	return intParam(r, "lombaID")
}

func sessionParam(r *http.Request) (int, error) {
	n, err := intParam(r, "sesi")
	if err != nil {
		return 0, err
	}
	if n != 1 && n != 2 {
		return 0, fmt.Errorf("invalid session %d", n)
	}
	return n, nil
}

// fail answers a request whose data could not be loaded.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if store.IsNotFound(err) {
		http.Error(w, "data tidak ditemukan", http.StatusNotFound)
		return
	}
	s.log.WithError(err).WithField("path", r.URL.Path).Error("load failed")
	http.Error(w, "server lomba tidak dapat dihubungi: "+userMessage(err), http.StatusBadGateway)
}

// userMessage is the text shown to the organizer for a failed call. The
// backend message is used when there is one.
func userMessage(err error) string {
	var batchErr *store.BatchSaveError
	if errors.As(err, &batchErr) {
		saved := "tidak ada"
		if len(batchErr.Saved) > 0 {
			parts := make([]string, len(batchErr.Saved))
			for i, n := range batchErr.Saved {
				parts[i] = strconv.Itoa(n)
			}
			saved = strings.Join(parts, ", ")
		}
		return fmt.Sprintf("Batch %d gagal disimpan (%s). Batch tersimpan: %s.", batchErr.Failed, userMessage(batchErr.Err), saved)
	}
	var apiErr *store.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Data tidak ditemukan."
	case errors.Is(err, bracket.ErrNoBatches):
		return "Jumlah batch lomba belum diatur."
	case errors.Is(err, bracket.ErrShapeMismatch):
		return "Susunan match sesi 1 tidak cocok dengan jumlah rider."
	}
	return "Terjadi kesalahan, coba lagi."
}

// submission claims the form's submission id. It returns false when the
// same form was already applied.
func (s *Server) submission(r *http.Request) (context.Context, string, bool) {
	id := strings.TrimSpace(r.FormValue("submission_id"))
	if !s.guard.First(id) {
		return nil, id, false
	}
	ctx := r.Context()
	if id != "" {
		ctx = store.WithIdempotencyKey(ctx, id)
	}
	return ctx, id, true
}

func redirectNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+notice, http.StatusSeeOther)
}

// loadCompetition fetches a competition and its participants together.
func (s *Server) loadCompetition(ctx context.Context, id int) (model.Competition, []model.Participant, error) {
	var (
		competition model.Competition
		riders      []model.Participant
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		competition, err = s.store.GetCompetition(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		riders, err = s.store.ListParticipants(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Competition{}, nil, err
	}
	return competition, riders, nil
}

// loadAll fetches the participants of every competition with a bounded
// number of concurrent calls.
func (s *Server) loadAll(ctx context.Context, competitions []model.Competition) ([][]model.Participant, error) {
	out := make([][]model.Participant, len(competitions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardFetchLimit)
	for i, c := range competitions {
		g.Go(func() error {
			riders, err := s.store.ListParticipants(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("participants of competition %d: %w", c.ID, err)
			}
			out[i] = riders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Server) competitionCards(ctx context.Context, mode DisplayMode) ([]CompetitionCard, error) {
	competitions, err := s.store.ListCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.loadAll(ctx, competitions)
	if err != nil {
		return nil, err
	}
	cards := make([]CompetitionCard, len(competitions))
	for i, c := range competitions {
		paid := model.PaidOnly(all[i])
		hasResults := false
		for _, p := range paid {
			if p.HasMotoPoints() {
				hasResults = true
				break
			}
		}
		cards[i] = CompetitionCard{
			Competition: c,
			Stage:       bracket.StageOf(paid),
			Registered:  len(all[i]),
			Paid:        len(paid),
			HasResults:  hasResults,
			Winners:     buildWinnersView(mode, paid, 2),
			ExportURL:   s.exportURL(c.ID),
		}
	}
	return cards, nil
}

func (s *Server) exportURL(id int) string {
	if s.cfg.ExportSecret == "" {
		return ""
	}
	return fmt.Sprintf("/export/%d.csv?token=%s", id, export.Token(s.cfg.ExportSecret, id))
}

// seed builds the bracket of the paid riders. A bracket that cannot be
// built is returned empty together with a warning for the page.
func seed(competition model.Competition, riders []model.Participant) (bracket.Bracket, []model.Participant, string) {
	paid := model.PaidOnly(riders)
	b, err := bracket.Build(competition, paid)
	if err != nil {
		return bracket.Bracket{Competition: competition, Stage: bracket.StageOf(paid)}, paid, userMessage(err)
	}
	return b, paid, ""
}

func (s *Server) refresh(competitionID int) {
	if s.hub != nil {
		s.hub.Refresh(competitionID)
	}
}
