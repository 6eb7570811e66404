package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Panz66/febw/internal/model"
	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer of the backend.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// APIStore talks to the race backend over its JSON API.
type APIStore struct {
	baseURL string
	client  *http.Client
	log     logrus.FieldLogger
}

func NewAPIStore(baseURL string, timeout time.Duration, log logrus.FieldLogger) *APIStore {
	return &APIStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type idempotencyKey struct{}

// WithIdempotencyKey attaches the key sent with every write made under ctx.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, idempotencyKey{}, key)
}

func idempotencyKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}

func (s *APIStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		if key := idempotencyKeyFrom(ctx); key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	s.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(resp.Body),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func (s *APIStore) ListCompetitions(ctx context.Context) ([]model.Competition, error) {
	var rows []lombaDTO
	if err := s.do(ctx, http.MethodGet, "/lomba", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

func (s *APIStore) GetCompetition(ctx context.Context, id int) (model.Competition, error) {
	var row lombaDTO
	if err := s.do(ctx, http.MethodGet, "/lomba/"+strconv.Itoa(id), nil, &row); err != nil {
		return model.Competition{}, err
	}
	return row.toModel(), nil
}

func (s *APIStore) ListParticipants(ctx context.Context, competitionID int) ([]model.Participant, error) {
	var rows []pesertaDTO
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/lomba/%d/peserta", competitionID), nil, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Participant, 0, len(rows))
	for _, row := range rows {
		p := row.toModel()
		if p.CompetitionID == 0 {
			p.CompetitionID = competitionID
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *APIStore) RegisterParticipant(ctx context.Context, competitionID int, reg model.Registration) error {
	body := map[string]any{
		"nama":             reg.Name,
		"plat_number":      reg.Plate,
		"community":        reg.Community,
		"no_hp":            reg.Phone,
		"metodePembayaran": reg.PaymentMethod,
		"kategori":         reg.Category,
	}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/lomba/%d/peserta", competitionID), body, nil)
}

func (s *APIStore) SetPaymentStatus(ctx context.Context, competitionID, participantID int, paid bool) error {
	path := fmt.Sprintf("/lomba/%d/peserta/%d/status", competitionID, participantID)
	return s.do(ctx, http.MethodPatch, path, map[string]any{"statusPembayaran": paid}, nil)
}

func (s *APIStore) AssignBatch(ctx context.Context, competitionID, batch int, participantIDs []int) error {
	body := map[string]any{"batch": batch, "pesertaIds": participantIDs}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/lomba/%d/peserta/batch", competitionID), body, nil)
}

func (s *APIStore) SaveMotoResults(ctx context.Context, competitionID int, moto model.Moto, results []model.MotoResult) error {
	pointKey := "point1"
	if moto == model.Moto2 {
		pointKey = "point2"
	}
	rows := make([]map[string]any, 0, len(results))
	for _, r := range results {
		rows = append(rows, map[string]any{
			"id":           r.ParticipantID,
			pointKey:       r.Point,
			"penaltyPoint": r.Penalty,
		})
	}
	body := map[string]any{"moto": moto, "peserta": rows}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/lomba/%d/hasil", competitionID), body, nil)
}

func (s *APIStore) SaveSessionResults(ctx context.Context, competitionID int, results []model.SessionResult) error {
	rows := make([]sessionResultDTO, 0, len(results))
	for _, r := range results {
		rows = append(rows, sessionResultDTO{
			ParticipantID: r.ParticipantID,
			Session:       r.Session,
			Finish:        r.Finish,
			Penalty:       r.Penalty,
		})
	}
	path := fmt.Sprintf("/lomba/%d/peserta/hasil-sesi", competitionID)
	return s.do(ctx, http.MethodPost, path, map[string]any{"data": rows}, nil)
}

func (s *APIStore) SetMatchName(ctx context.Context, competitionID, participantID, session int, name string) error {
	body := map[string]any{"pesertaId": participantID, "sesi": session, "matchName": name}
	return s.do(ctx, http.MethodPost, fmt.Sprintf("/lomba/%d/peserta/match/name", competitionID), body, nil)
}

func (s *APIStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	var rows []pesanDTO
	if err := s.do(ctx, http.MethodGet, "/pesan", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Message{
			ID:        row.ID,
			Name:      row.Name,
			Email:     row.Email,
			Body:      row.Body,
			CreatedAt: parseTime(row.CreatedAt),
		})
	}
	return out, nil
}

func (s *APIStore) CreateMessage(ctx context.Context, msg model.Message) error {
	body := map[string]any{"nama": msg.Name, "email": msg.Email, "pesan": msg.Body}
	return s.do(ctx, http.MethodPost, "/pesan", body, nil)
}

// IsNotFound reports whether err means the backend has no such record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
