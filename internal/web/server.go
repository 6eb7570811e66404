package web

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Panz66/febw/internal/config"
	"github.com/Panz66/febw/internal/export"
	"github.com/Panz66/febw/internal/live"
	"github.com/Panz66/febw/internal/notify"
	"github.com/Panz66/febw/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Options carries the optional collaborators of the server. Nil values
// switch the matching feature off.
type Options struct {
	Config    config.Config
	Logger    logrus.FieldLogger
	Hub       *live.Hub
	Announcer notify.Announcer
	Publisher export.Publisher
}

type Server struct {
	store     store.Store
	templates *Templates
	cfg       config.Config
	log       logrus.FieldLogger
	hub       *live.Hub
	announcer notify.Announcer
	publisher export.Publisher
	guard     *submissionGuard

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewServer(store store.Store, templates *Templates, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	seed := opts.Config.WheelSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Server{
		store:     store,
		templates: templates,
		cfg:       opts.Config,
		log:       log,
		hub:       opts.Hub,
		announcer: opts.Announcer,
		publisher: opts.Publisher,
		guard:     newSubmissionGuard(10 * time.Minute),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.Get("/dashboard", s.handleDashboard)
	r.Get("/registrasi", s.handleRegistration)
	r.Post("/registrasi/{lombaID}", s.handleRegistrationPost)
	r.Get("/kontak", s.handleContact)
	r.Post("/kontak", s.handleContactPost)
	r.Get("/hasil", s.handleResultsList)
	r.Get("/hasil/{lombaID}", s.handleResults)
	r.Get("/hasil/{lombaID}/ws", s.handleResultsWS)
	r.Get("/export/{lombaID}.csv", s.handlePublicExport)

	r.Get("/admin/login", s.handleLogin)
	r.Post("/admin/login", s.handleLoginPost)
	r.Post("/admin/logout", s.handleLogout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/", s.handleAdminIndex)
		r.Get("/pesan", s.handleMessages)
		r.Route("/lomba/{lombaID}", func(r chi.Router) {
			r.Get("/pembayaran", s.handlePayments)
			r.Post("/pembayaran", s.handlePaymentsPost)
			r.Get("/peserta", s.handleParticipants)
			r.Get("/acak", s.handleWheel)
			r.Post("/acak/spin", s.handleWheelSpin)
			r.Post("/acak/simpan", s.handleWheelSave)
			r.Get("/olahdata", s.handleSeeding)
			r.Get("/moto/{moto}", s.handleMoto)
			r.Post("/moto/{moto}", s.handleMotoPost)
			r.Get("/sesi/{sesi}", s.handleSession)
			r.Post("/sesi/{sesi}/finish", s.handleSessionFinish)
			r.Post("/sesi/{sesi}/match-name", s.handleMatchName)
			r.Get("/export.csv", s.handleAdminExport)
			r.Post("/export/sheets", s.handleSheetsPublish)
		})
	})

	return r
}
