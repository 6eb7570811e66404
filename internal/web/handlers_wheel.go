package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"
	"github.com/sirupsen/logrus"
)

// The wheel keeps no server state: the page carries the ids drawn so far
// and every request replays them on a fresh wheel.

func parseOrder(raw string) ([]int, error) {
	order := []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid draw order %q", raw)
		}
		order = append(order, id)
	}
	return order, nil
}

func formatOrder(order []int) string {
	parts := make([]string, len(order))
	for i, id := range order {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func wheelView(base BaseView, competition model.Competition, riders []model.Participant, w *bracket.Wheel) WheelView {
	byID := make(map[int]model.Participant, len(riders))
	for _, p := range riders {
		byID[p.ID] = p
	}
	capacities := w.Capacities()
	current := w.CurrentBatch()
	view := WheelView{
		BaseView:     base,
		Competition:  competition,
		Remaining:    w.Remaining(),
		Order:        formatOrder(w.Drawn()),
		Drawn:        len(w.Drawn()),
		CurrentBatch: current,
		Done:         w.Done(),
	}
	for i, ids := range w.Assignments() {
		batch := WheelBatch{Number: i + 1, Capacity: capacities[i], Open: i+1 == current}
		for _, id := range ids {
			batch.Riders = append(batch.Riders, byID[id])
		}
		view.Batches = append(view.Batches, batch)
	}
	return view
}

// loadWheel builds the wheel of the paid riders and replays order on it.
func (s *Server) loadWheel(r *http.Request, id int, order []int) (model.Competition, []model.Participant, *bracket.Wheel, error) {
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		return model.Competition{}, nil, nil, err
	}
	paid := model.PaidOnly(riders)
	w, err := bracket.NewWheel(paid, competition.BatchCount)
	if err != nil {
		return competition, paid, nil, err
	}
	if err := w.Replay(order); err != nil {
		return competition, paid, nil, err
	}
	return competition, paid, w, nil
}

func (s *Server) wheelError(w http.ResponseWriter, r *http.Request, id int, err error) {
	if errors.Is(err, bracket.ErrNotOnWheel) {
		// riders changed since the page was loaded; start over
		competition, paid, wheel, loadErr := s.loadWheel(r, id, nil)
		if loadErr == nil {
			view := wheelView(s.baseView(r, "Undian Batch"), competition, paid, wheel)
			view.FlashError = "Data rider berubah, undian dimulai ulang."
			s.render(w, r, "wheel.html", "wheel_state.html", view)
			return
		}
		err = loadErr
	}
	if errors.Is(err, bracket.ErrNoBatches) {
		http.Error(w, userMessage(err), http.StatusConflict)
		return
	}
	s.fail(w, r, err)
}

func (s *Server) handleWheel(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	competition, paid, wheel, err := s.loadWheel(r, id, nil)
	if err != nil {
		s.wheelError(w, r, id, err)
		return
	}
	view := wheelView(s.baseView(r, "Undian Batch - "+competition.Name), competition, paid, wheel)
	s.render(w, r, "wheel.html", "", view)
}

func (s *Server) handleWheelSpin(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	order, err := parseOrder(r.FormValue("order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	competition, paid, wheel, err := s.loadWheel(r, id, order)
	if err != nil {
		s.wheelError(w, r, id, err)
		return
	}

	var (
		last      *model.Participant
		lastBatch int
	)
	s.rngMu.Lock()
	for !wheel.Done() {
		p, batch, err := wheel.Draw(s.rng)
		if err != nil {
			break
		}
		last, lastBatch = &p, batch
		if r.FormValue("all") == "" {
			break
		}
	}
	s.rngMu.Unlock()

	view := wheelView(s.baseView(r, "Undian Batch - "+competition.Name), competition, paid, wheel)
	view.Last, view.LastBatch = last, lastBatch
	if last == nil {
		view.FlashError = "Semua rider sudah mendapat batch."
	}
	s.render(w, r, "wheel.html", "wheel_state.html", view)
}

func (s *Server) handleWheelSave(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	order, err := parseOrder(r.FormValue("order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	competition, paid, wheel, err := s.loadWheel(r, id, order)
	if err != nil {
		s.wheelError(w, r, id, err)
		return
	}
	view := wheelView(s.baseView(r, "Undian Batch - "+competition.Name), competition, paid, wheel)
	if len(order) == 0 {
		view.FlashError = "Belum ada rider yang diundi."
		s.render(w, r, "wheel.html", "wheel_state.html", view)
		return
	}
	if !wheel.Done() {
		view.FlashError = fmt.Sprintf("Masih ada %d rider yang belum diundi.", len(view.Remaining))
		s.render(w, r, "wheel.html", "wheel_state.html", view)
		return
	}

	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, fmt.Sprintf("/admin/lomba/%d/olahdata", id), "duplicate")
		return
	}
	if err := store.SaveBatches(ctx, s.store, id, drawnAssignments(wheel)); err != nil {
		s.guard.Forget(sid)
		s.log.WithError(err).WithField("competition", id).Error("save batches")
		view.FlashError = userMessage(err)
		s.render(w, r, "wheel.html", "wheel_state.html", view)
		return
	}
	s.log.WithFields(logrus.Fields{"competition": id, "riders": len(order)}).Info("batches saved")
	s.refresh(id)
	redirectNotice(w, r, fmt.Sprintf("/admin/lomba/%d/olahdata", id), "batches_saved")
}

// drawnAssignments keeps only the riders placed by this draw; riders that
// already had a batch are not sent again.
func drawnAssignments(w *bracket.Wheel) [][]int {
	drawn := map[int]bool{}
	for _, id := range w.Drawn() {
		drawn[id] = true
	}
	out := make([][]int, 0)
	for _, ids := range w.Assignments() {
		batch := []int{}
		for _, id := range ids {
			if drawn[id] {
				batch = append(batch, id)
			}
		}
		out = append(out, batch)
	}
	return out
}
