package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/config"
	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t      *testing.T
	mem    *store.MemoryStore
	server *Server
	race   model.Competition
	riders map[string]model.Participant
}

func testConfig() config.Config {
	return config.Config{
		App:           "dev",
		AdminUsername: "admin",
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		ExportSecret:  "export-secret",
		WheelSeed:     7,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTemplates(t *testing.T) *Templates {
	t.Helper()
	templates, err := NewTemplates(os.DirFS("../.."))
	require.NoError(t, err)
	return templates
}

// newFixture seeds one boys race with two batches of three paid riders and
// one unpaid registration.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewEmptyMemoryStore()
	f := &fixture{t: t, mem: mem, riders: map[string]model.Participant{}}
	f.race = mem.AddCompetition(model.Competition{
		Name:       "Seri Bandung",
		Date:       time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		Category:   model.CategoryBoy,
		Fee:        150000,
		Quota:      10,
		BatchCount: 2,
	})
	for i, name := range []string{"Raka", "Bima", "Arka", "Dafa", "Kenzo", "Zidan"} {
		points := i/2 + 1
		f.add(model.Participant{
			Name:   name,
			Plate:  strconv.Itoa(11 + i),
			Paid:   true,
			Batch:  i%2 + 1,
			Point1: points,
			Point2: points,
		})
	}
	f.add(model.Participant{Name: "Unpaid", Plate: "17"})
	f.server = NewServer(mem, newTemplates(t), Options{Config: testConfig(), Logger: quietLogger()})
	return f
}

func (f *fixture) add(p model.Participant) model.Participant {
	if p.CompetitionID == 0 {
		p.CompetitionID = f.race.ID
	}
	if p.Category == "" {
		p.Category = model.CategoryBoy
	}
	p = f.mem.AddParticipant(p)
	f.riders[p.Name] = p
	return p
}

// rider reloads one participant from the store.
func (f *fixture) rider(name string) model.Participant {
	f.t.Helper()
	riders, err := f.mem.ListParticipants(context.Background(), f.race.ID)
	require.NoError(f.t, err)
	for _, p := range riders {
		if p.Name == name {
			return p
		}
	}
	f.t.Fatalf("no rider %q", name)
	return model.Participant{}
}

func (f *fixture) bracket() bracket.Bracket {
	f.t.Helper()
	riders, err := f.mem.ListParticipants(context.Background(), f.race.ID)
	require.NoError(f.t, err)
	b, err := bracket.Build(f.race, model.PaidOnly(riders))
	require.NoError(f.t, err)
	return b
}

type reqOption func(r *http.Request)

func asAdmin(s *Server) reqOption {
	return func(r *http.Request) {
		token, err := s.issueSession("admin", time.Now())
		if err != nil {
			panic(err)
		}
		r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
}

func withHTMX(r *http.Request) {
	r.Header.Set("HX-Request", "true")
}

func (f *fixture) get(path string, opts ...reqOption) *httptest.ResponseRecorder {
	return do(f.server, http.MethodGet, path, nil, opts...)
}

func (f *fixture) post(path string, form url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	return do(f.server, http.MethodPost, path, form, opts...)
}

func (f *fixture) adminGet(path string, opts ...reqOption) *httptest.ResponseRecorder {
	return f.get(path, append(opts, asAdmin(f.server))...)
}

func (f *fixture) adminPost(path string, form url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	return f.post(path, form, append(opts, asAdmin(f.server))...)
}

func do(s *Server, method, path string, form url.Values, opts ...reqOption) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func texts(sel *goquery.Selection) []string {
	out := []string{}
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
