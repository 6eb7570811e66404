package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func (s *Server) seedingView(r *http.Request, competition model.Competition, riders []model.Participant) (SeedingView, bracket.Bracket) {
	b, _, warning := seed(competition, riders)
	view := SeedingView{
		BaseView:    s.baseView(r, "Olah Data - "+competition.Name),
		Competition: competition,
		Stage:       b.Stage,
		Batches:     b.Batches,
		Unassigned:  b.Unassigned,
		ExportURL:   s.exportURL(competition.ID),
		CanPublish:  s.publisher != nil,
	}
	view.Warning = warning
	return view, b
}

func (s *Server) handleSeeding(w http.ResponseWriter, r *http.Request) {
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
	view, _ := s.seedingView(r, competition, riders)
	s.render(w, r, "olahdata.html", "", view)
}

func motoParam(r *http.Request) (model.Moto, error) {
	raw := chi.URLParam(r, "moto")
	moto, ok := model.ParseMoto(raw)
	if !ok {
		return "", fmt.Errorf("invalid moto %q", raw)
	}
	return moto, nil
}

// motoBatches groups the paid riders by batch.
func motoBatches(competition model.Competition, riders []model.Participant) ([]bracket.Batch, error) {
	batches, _, err := bracket.GroupByBatch(model.PaidOnly(riders), competition.BatchCount)
	return batches, err
}

func motoTitle(moto model.Moto, competition model.Competition) string {
	return fmt.Sprintf("Hasil %s - %s", strings.ToUpper(string(moto)), competition.Name)
}

func (s *Server) handleMoto(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	moto, err := motoParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := MotoView{
		BaseView:    s.baseView(r, motoTitle(moto, competition)),
		Competition: competition,
		Moto:        moto,
	}
	batches, err := motoBatches(competition, riders)
	if err != nil {
		view.Warning = userMessage(err)
	}
	for _, b := range batches {
		mb := MotoBatch{Number: b.Number}
		for _, row := range bracket.MotoSheet(b.Riders, moto) {
			mb.Rows = append(mb.Rows, MotoCell{Plate: row.Plate, Penalty: row.Penalty})
		}
		view.Batches = append(view.Batches, mb)
	}
	s.render(w, r, "moto.html", "", view)
}

func (s *Server) handleMotoPost(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	moto, err := motoParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	batches, err := motoBatches(competition, riders)
	if err != nil {
		http.Error(w, userMessage(err), http.StatusConflict)
		return
	}

	view := MotoView{
		BaseView:    s.baseView(r, motoTitle(moto, competition)),
		Competition: competition,
		Moto:        moto,
	}
	sheets := make([][]bracket.MotoRow, len(batches))
	for i, b := range batches {
		mb := MotoBatch{Number: b.Number}
		for row := range b.Riders {
			plate := strings.TrimSpace(r.FormValue(fmt.Sprintf("plate_%d_%d", b.Number, row)))
			penalty, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(fmt.Sprintf("penalty_%d_%d", b.Number, row))))
			sheets[i] = append(sheets[i], bracket.MotoRow{Plate: plate, Penalty: penalty})
			mb.Rows = append(mb.Rows, MotoCell{Plate: plate, Penalty: penalty})
		}
		view.Batches = append(view.Batches, mb)
	}

	results, err := bracket.ScoreMoto(model.PaidOnly(riders), sheets)
	if err != nil {
		view.FlashError = "Periksa nomor plat: " + err.Error()
		s.render(w, r, "moto.html", "", view)
		return
	}
	if len(results) == 0 {
		view.FlashError = "Isi minimal satu hasil."
		s.render(w, r, "moto.html", "", view)
		return
	}

	path := fmt.Sprintf("/admin/lomba/%d/moto/%s", id, moto)
	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, path, "duplicate")
		return
	}
	if err := s.store.SaveMotoResults(ctx, id, moto, results); err != nil {
		s.guard.Forget(sid)
		s.log.WithError(err).WithField("competition", id).Error("save moto results")
		view.FlashError = userMessage(err)
		s.render(w, r, "moto.html", "", view)
		return
	}
	s.log.WithFields(logrus.Fields{"competition": id, "moto": moto, "results": len(results)}).Info("moto results saved")
	s.refresh(id)
	redirectNotice(w, r, path, "moto_saved")
}

func sessionMatches(base BaseView, competitionID int, matches []bracket.Match) []SessionMatch {
	out := make([]SessionMatch, 0, len(matches))
	for _, m := range matches {
		sm := SessionMatch{CompetitionID: competitionID, SubmissionID: base.SubmissionID, Match: m}
		for _, p := range m.Riders {
			rec, _ := p.Session(m.Session)
			sm.Entries = append(sm.Entries, SessionEntry{Rider: p, Finish: rec.Finish, Penalty: rec.Penalty})
		}
		out = append(out, sm)
	}
	return out
}

func (s *Server) sessionView(r *http.Request, id, session int) (SessionView, bracket.Bracket, error) {
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		return SessionView{}, bracket.Bracket{}, err
	}
	b, _, warning := seed(competition, riders)
	round := b.Round(session)
	base := s.baseView(r, fmt.Sprintf("Sesi %d - %s", session, competition.Name))
	view := SessionView{
		BaseView:    base,
		Competition: competition,
		Session:     session,
		Stage:       b.Stage,
		Primary:     sessionMatches(base, id, round.Primary),
		Secondary:   sessionMatches(base, id, round.Secondary),
	}
	view.Warning = warning
	if warning == "" && session == 2 && b.Stage < bracket.Session1Finished {
		view.Warning = "Sesi 1 belum selesai; susunan sesi 2 masih sementara."
	}
	return view, b, nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := sessionParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, _, err := s.sessionView(r, id, session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "session.html", "", view)
}

var errBadFinish = errors.New("bad finish")

// parseFinishes reads the finish and penalty inputs of every rider of the
// round. Finishes must be unique inside a match and fit its size.
func parseFinishes(r *http.Request, round bracket.Round) ([]model.SessionResult, error) {
	results := []model.SessionResult{}
	for _, m := range round.Matches() {
		used := map[int]bool{}
		for _, p := range m.Riders {
			rawFinish := strings.TrimSpace(r.FormValue(fmt.Sprintf("finish_%d", p.ID)))
			if rawFinish == "" {
				continue
			}
			finish, err := strconv.Atoi(rawFinish)
			if err != nil || finish < 1 || finish > m.Size() {
				return nil, fmt.Errorf("%w: posisi %s untuk %s harus 1 sampai %d", errBadFinish, rawFinish, p.Name, m.Size())
			}
			if used[finish] {
				return nil, fmt.Errorf("%w: posisi %d dipakai dua kali di %s", errBadFinish, finish, m.Label())
			}
			used[finish] = true
			penalty, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(fmt.Sprintf("penalty_%d", p.ID))))
			results = append(results, model.SessionResult{
				ParticipantID: p.ID,
				Session:       round.Session,
				Finish:        finish,
				Penalty:       max(penalty, 0),
			})
		}
	}
	return results, nil
}

func (s *Server) handleSessionFinish(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := sessionParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	view, b, err := s.sessionView(r, id, session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	results, err := parseFinishes(r, b.Round(session))
	if err != nil {
		view.FlashError = strings.TrimPrefix(err.Error(), errBadFinish.Error()+": ")
		s.render(w, r, "session.html", "", view)
		return
	}
	if len(results) == 0 {
		view.FlashError = "Isi minimal satu posisi finish."
		s.render(w, r, "session.html", "", view)
		return
	}

	path := fmt.Sprintf("/admin/lomba/%d/sesi/%d", id, session)
	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, path, "duplicate")
		return
	}
	if err := s.store.SaveSessionResults(ctx, id, results); err != nil {
		s.guard.Forget(sid)
		s.log.WithError(err).WithField("competition", id).Error("save session results")
		view.FlashError = userMessage(err)
		s.render(w, r, "session.html", "", view)
		return
	}
	s.log.WithFields(logrus.Fields{"competition": id, "session": session, "results": len(results)}).Info("session results saved")
	s.refresh(id)
	if session == 2 {
		s.announceIfFinished(r, id)
	}
	redirectNotice(w, r, path, "finish_saved")
}

// announceIfFinished posts the session 2 winners once every batched rider
// has a session 2 finish.
func (s *Server) announceIfFinished(r *http.Request, id int) {
	if s.announcer == nil {
		return
	}
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		s.log.WithError(err).WithField("competition", id).Warn("reload before announcement")
		return
	}
	paid := model.PaidOnly(riders)
	if bracket.StageOf(paid) < bracket.Session2Finished {
		return
	}
	if err := s.announcer.AnnounceWinners(r.Context(), competition, bracket.SessionWinners(paid, 2)); err != nil {
		s.log.WithError(err).WithField("competition", id).Warn("announce winners")
	}
}

func parsePool(raw string) (bracket.Pool, bool) {
	switch strings.TrimSpace(raw) {
	case bracket.Primary.String():
		return bracket.Primary, true
	case bracket.Secondary.String():
		return bracket.Secondary, true
	}
	return 0, false
}

// handleMatchName writes the name to every rider of the match.
func (s *Server) handleMatchName(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := sessionParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	pool, ok := parsePool(r.FormValue("pool"))
	index, err := strconv.Atoi(r.FormValue("index"))
	if !ok || err != nil {
		http.Error(w, "match tidak valid", http.StatusBadRequest)
		return
	}
	view, b, err := s.sessionView(r, id, session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	match, found := b.Round(session).Find(pool, index)
	if !found {
		view.FlashError = "Match tidak ditemukan, muat ulang halaman."
		s.render(w, r, "session.html", "", view)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		view.FlashError = "Nama match wajib diisi."
		s.render(w, r, "session.html", "", view)
		return
	}

	path := fmt.Sprintf("/admin/lomba/%d/sesi/%d", id, session)
	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, path, "duplicate")
		return
	}
	for _, p := range match.Riders {
		if err := s.store.SetMatchName(ctx, id, p.ID, session, name); err != nil {
			s.guard.Forget(sid)
			s.log.WithError(err).WithFields(logrus.Fields{"competition": id, "participant": p.ID}).Error("set match name")
			view.FlashError = fmt.Sprintf("Gagal menyimpan nama match untuk %s: %s", p.Name, userMessage(err))
			s.render(w, r, "session.html", "", view)
			return
		}
	}
	s.refresh(id)
	redirectNotice(w, r, path, "match_named")
}

func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeCSV(w, r, id)
}

func (s *Server) handleSheetsPublish(w http.ResponseWriter, r *http.Request) {
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
	view, b := s.seedingView(r, competition, riders)
	switch {
	case s.publisher == nil:
		view.FlashError = "Google Sheets belum dikonfigurasi."
	case view.Warning != "":
		view.FlashError = view.Warning
	}
	if view.FlashError != "" {
		s.render(w, r, "olahdata.html", "", view)
		return
	}
	sheet, err := s.publisher.Publish(r.Context(), b)
	if err != nil {
		s.log.WithError(err).WithField("competition", id).Error("publish to sheets")
		view.FlashError = "Gagal mengirim ke Google Sheets: " + err.Error()
		s.render(w, r, "olahdata.html", "", view)
		return
	}
	s.log.WithFields(logrus.Fields{"competition": id, "sheet": sheet}).Info("published to sheets")
	redirectNotice(w, r, fmt.Sprintf("/admin/lomba/%d/olahdata", id), "sheets_published")
}
