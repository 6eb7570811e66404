package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Panz66/febw/internal/model"
	"github.com/Panz66/febw/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records payment updates on top of the memory store.
type countingStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	updates []int
}

func (c *countingStore) SetPaymentStatus(ctx context.Context, competitionID, participantID int, paid bool) error {
	c.mu.Lock()
	c.updates = append(c.updates, participantID)
	c.mu.Unlock()
	return c.MemoryStore.SetPaymentStatus(ctx, competitionID, participantID, paid)
}

func TestAdminIndex(t *testing.T) {
	f := newFixture(t)
	rec := f.adminGet("/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	card := doc.Find(`section[data-competition="1"]`)
	require.Equal(t, 1, card.Length())
	assert.Contains(t, card.Text(), "7 terdaftar")
	assert.Contains(t, card.Text(), "6 lunas")
	assert.Contains(t, doc.Find(".topbar").Text(), "Keluar (admin)")
}

func TestPayments(t *testing.T) {
	f := newFixture(t)
	counting := &countingStore{MemoryStore: f.mem}
	f.server.store = counting

	rec := f.adminGet("/admin/lomba/1/pembayaran")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 7, doc.Find(`input[name="paid"]`).Length())
	assert.Equal(t, 6, doc.Find(`input[name="paid"][checked]`).Length())

	// Unpaid becomes paid and Zidan is unchecked; the rest stay as they are.
	form := url.Values{"submission_id": {"pay-1"}}
	for _, name := range []string{"Raka", "Bima", "Arka", "Dafa", "Kenzo", "Unpaid"} {
		form.Add("paid", strconv.Itoa(f.riders[name].ID))
	}
	rec = f.adminPost("/admin/lomba/1/pembayaran", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/lomba/1/pembayaran?notice=payments_saved", rec.Header().Get("Location"))
	assert.ElementsMatch(t, []int{f.riders["Zidan"].ID, f.riders["Unpaid"].ID}, counting.updates)
	assert.True(t, f.rider("Unpaid").Paid)
	assert.False(t, f.rider("Zidan").Paid)

	form.Set("submission_id", "pay-2")
	rec = f.adminPost("/admin/lomba/1/pembayaran", form)
	assert.Equal(t, "/admin/lomba/1/pembayaran?notice=no_changes", rec.Header().Get("Location"))
	assert.Len(t, counting.updates, 2)

	rec = f.adminPost("/admin/lomba/1/pembayaran", form)
	assert.Equal(t, "/admin/lomba/1/pembayaran?notice=duplicate", rec.Header().Get("Location"))
}

func TestParticipants_PaidOnly(t *testing.T) {
	f := newFixture(t)
	rec := f.adminGet("/admin/lomba/1/peserta")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 6, doc.Find("tr[data-rider]").Length())
	assert.NotContains(t, doc.Find("tbody").Text(), "Unpaid")
}

func TestMessages_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, f.mem.CreateMessage(ctx, model.Message{Name: "Lama", Email: "a@b.c", Body: "pertama", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, f.mem.CreateMessage(ctx, model.Message{Name: "Baru", Email: "d@e.f", Body: "kedua", CreatedAt: now}))

	rec := f.adminGet("/admin/pesan")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, []string{"kedua", "pertama"}, texts(doc.Find(".message p")))
}
