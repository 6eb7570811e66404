package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/export"
	"github.com/Panz66/febw/internal/live"
	"github.com/Panz66/febw/internal/model"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	cards, err := s.competitionCards(r.Context(), parseDisplayMode(r.URL.Query().Get("mode"), Carousel))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := DashboardView{BaseView: s.baseView(r, "Dashboard"), Cards: cards}
	s.render(w, r, "dashboard.html", "", view)
}

func (s *Server) registrationView(r *http.Request) (RegistrationView, error) {
	competitions, err := s.store.ListCompetitions(r.Context())
	if err != nil {
		return RegistrationView{}, err
	}
	return RegistrationView{
		BaseView:     s.baseView(r, "Pendaftaran"),
		Competitions: competitions,
		Form:         model.Registration{PaymentMethod: model.PaymentTransfer},
	}, nil
}

func (s *Server) handleRegistration(w http.ResponseWriter, r *http.Request) {
	view, err := s.registrationView(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "registration.html", "", view)
}

func (s *Server) handleRegistrationPost(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	reg := model.Registration{
		Name:          strings.TrimSpace(r.FormValue("nama")),
		Plate:         strings.ToUpper(strings.TrimSpace(r.FormValue("plat_number"))),
		Community:     strings.TrimSpace(r.FormValue("community")),
		Phone:         strings.TrimSpace(r.FormValue("no_hp")),
		PaymentMethod: model.PaymentMethod(strings.TrimSpace(r.FormValue("metodePembayaran"))),
		Category:      model.Category(strings.TrimSpace(r.FormValue("kategori"))),
	}

	fail := func(msg string) {
		view, err := s.registrationView(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		view.Selected = id
		view.Form = reg
		view.FlashError = msg
		s.render(w, r, "registration.html", "", view)
	}

	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !reg.Category.Valid() {
		reg.Category = competition.Category
	}
	switch {
	case reg.Name == "" || reg.Plate == "" || reg.Phone == "":
		fail("Nama, nomor plat dan nomor HP wajib diisi")
		return
	case reg.PaymentMethod != model.PaymentTransfer && reg.PaymentMethod != model.PaymentCash:
		fail("Pilih metode pembayaran")
		return
	case competition.Category.Valid() && reg.Category != competition.Category:
		fail("Kategori tidak sesuai dengan lomba")
		return
	case competition.Quota > 0 && len(riders) >= competition.Quota:
		fail("Kuota lomba sudah penuh")
		return
	}
	for _, p := range riders {
		if strings.EqualFold(strings.TrimSpace(p.Plate), reg.Plate) {
			fail(fmt.Sprintf("Nomor plat %s sudah terdaftar", reg.Plate))
			return
		}
	}

	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, "/registrasi", "duplicate")
		return
	}
	if err := s.store.RegisterParticipant(ctx, id, reg); err != nil {
		s.guard.Forget(sid)
		s.log.WithError(err).WithField("competition", id).Warn("registration failed")
		fail(userMessage(err))
		return
	}
	s.log.WithField("competition", id).Info("participant registered")
	redirectNotice(w, r, "/registrasi", "registered")
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	view := ContactView{BaseView: s.baseView(r, "Kontak")}
	s.render(w, r, "contact.html", "", view)
}

func (s *Server) handleContactPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	msg := model.Message{
		Name:  strings.TrimSpace(r.FormValue("nama")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Body:  strings.TrimSpace(r.FormValue("pesan")),
	}
	view := ContactView{BaseView: s.baseView(r, "Kontak"), Form: msg}
	if msg.Name == "" || msg.Body == "" || !strings.Contains(msg.Email, "@") {
		view.FlashError = "Nama, email dan pesan wajib diisi"
		s.render(w, r, "contact.html", "", view)
		return
	}
	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, "/kontak", "duplicate")
		return
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		s.guard.Forget(sid)
		s.log.WithError(err).Warn("contact message failed")
		view.FlashError = userMessage(err)
		s.render(w, r, "contact.html", "", view)
		return
	}
	redirectNotice(w, r, "/kontak", "message_sent")
}

func (s *Server) handleResultsList(w http.ResponseWriter, r *http.Request) {
	cards, err := s.competitionCards(r.Context(), GroupedByMatch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := ResultsListView{BaseView: s.baseView(r, "Hasil Lomba"), Cards: cards}
	s.render(w, r, "results_list.html", "", view)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	mode := parseDisplayMode(r.URL.Query().Get("mode"), GroupedByMatch)
	b, paid, warning := seed(competition, riders)
	view := ResultsView{
		BaseView:    s.baseView(r, competition.Name),
		Competition: competition,
		Stage:       b.Stage,
		Batches:     b.Batches,
		Unassigned:  b.Unassigned,
		Session1:    roundView(b, 1),
		Session2:    roundView(b, 2),
		Winners:     buildWinnersView(mode, paid, 2),
		Modes:       []DisplayMode{SingleWinner, GroupedByMatch, Carousel},
		LivePath:    fmt.Sprintf("/hasil/%d?mode=%s", id, mode),
	}
	view.Warning = warning
	if s.hub != nil {
		view.SocketPath = fmt.Sprintf("/hasil/%d/ws", id)
	}
	s.render(w, r, "results.html", "results_body.html", view)
}

func roundView(b bracket.Bracket, session int) RoundView {
	round := b.Round(session)
	view := RoundView{Session: session}
	for _, m := range round.Primary {
		view.Primary = append(view.Primary, matchView(b, m))
	}
	for _, m := range round.Secondary {
		view.Secondary = append(view.Secondary, matchView(b, m))
	}
	return view
}

func matchView(b bracket.Bracket, m bracket.Match) MatchView {
	rows := make([]MatchRow, 0, len(m.Riders))
	finished := bracket.FinishOrder(m.Riders, m.Session)
	seen := map[int]bool{}
	for _, p := range finished {
		seen[p.ID] = true
		rows = append(rows, MatchRow{Rider: p, Finish: bracket.FinishLabel(p, m.Session), Total: bracket.TotalPoint(p, m.Session)})
	}
	for _, p := range m.Riders {
		if !seen[p.ID] {
			rows = append(rows, MatchRow{Rider: p, Finish: bracket.NoFinish, Total: bracket.TotalPoint(p, m.Session)})
		}
	}
	view := MatchView{
		Match:  m,
		Label:  m.Label(),
		Winner: bracket.WinnerName(m.Riders, m.Session),
		Rows:   rows,
	}
	if b.Progression != nil && m.Session == 2 {
		view.Feeders = b.Progression.Feeders(m)
	}
	return view
}

func (s *Server) handleResultsWS(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil || s.hub == nil {
		http.NotFound(w, r)
		return
	}
	live.ServeWS(s.hub, s.log, w, r, id)
}

func (s *Server) handlePublicExport(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !export.VerifyToken(s.cfg.ExportSecret, id, r.URL.Query().Get("token")) {
		http.Error(w, "tautan tidak valid", http.StatusForbidden)
		return
	}
	s.writeCSV(w, r, id)
}

func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, id int) {
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, _, warning := seed(competition, riders)
	if warning != "" {
		http.Error(w, warning, http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lomba-%d-%s.csv"`, id, time.Now().Format("20060102")))
	if err := export.WriteCSV(w, b); err != nil {
		s.log.WithError(err).WithField("competition", id).Error("write csv")
	}
}
