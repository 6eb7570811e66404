package web

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/Panz66/febw/internal/model"
	"github.com/sirupsen/logrus"
)

func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	cards, err := s.competitionCards(r.Context(), GroupedByMatch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view := AdminIndexView{BaseView: s.baseView(r, "Panitia"), Cards: cards}
	s.render(w, r, "admin.html", "", view)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	view := MessagesView{BaseView: s.baseView(r, "Pesan Masuk"), Messages: messages}
	s.render(w, r, "messages.html", "", view)
}

func (s *Server) paymentsView(r *http.Request, id int) (PaymentsView, error) {
	competition, riders, err := s.loadCompetition(r.Context(), id)
	if err != nil {
		return PaymentsView{}, err
	}
	return PaymentsView{
		BaseView:     s.baseView(r, "Pembayaran - "+competition.Name),
		Competition:  competition,
		Participants: riders,
		PaidCount:    len(model.PaidOnly(riders)),
	}, nil
}

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := s.paymentsView(r, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, "payments.html", "", view)
}

// handlePaymentsPost sends a status update only for participants whose
// checkbox differs from the stored status.
func (s *Server) handlePaymentsPost(w http.ResponseWriter, r *http.Request) {
	id, err := competitionID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "data tidak valid", http.StatusBadRequest)
		return
	}
	checked := map[int]bool{}
	for _, raw := range r.Form["paid"] {
		if pid, err := strconv.Atoi(raw); err == nil {
			checked[pid] = true
		}
	}

	ctx, sid, ok := s.submission(r)
	if !ok {
		redirectNotice(w, r, fmt.Sprintf("/admin/lomba/%d/pembayaran", id), "duplicate")
		return
	}
	riders, err := s.store.ListParticipants(ctx, id)
	if err != nil {
		s.guard.Forget(sid)
		s.fail(w, r, err)
		return
	}
	changed := 0
	for _, p := range riders {
		if p.Paid == checked[p.ID] {
			continue
		}
		if err := s.store.SetPaymentStatus(ctx, id, p.ID, checked[p.ID]); err != nil {
			s.guard.Forget(sid)
			s.log.WithError(err).WithFields(logrus.Fields{"competition": id, "participant": p.ID}).Warn("payment update failed")
			view, loadErr := s.paymentsView(r, id)
			if loadErr != nil {
				s.fail(w, r, loadErr)
				return
			}
			view.FlashError = fmt.Sprintf("Gagal menyimpan pembayaran %s: %s", p.Name, userMessage(err))
			s.render(w, r, "payments.html", "", view)
			return
		}
		changed++
	}
	s.log.WithFields(logrus.Fields{"competition": id, "changed": changed}).Info("payments saved")
	notice := "payments_saved"
	if changed == 0 {
		notice = "no_changes"
	}
	redirectNotice(w, r, fmt.Sprintf("/admin/lomba/%d/pembayaran", id), notice)
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
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
	view := ParticipantsView{
		BaseView:     s.baseView(r, "Peserta - "+competition.Name),
		Competition:  competition,
		Participants: model.PaidOnly(riders),
	}
	s.render(w, r, "participants.html", "", view)
}
