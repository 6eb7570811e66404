package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/Panz66/febw/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWheelFixture adds a second race with five paid riders and no batches.
func newWheelFixture(t *testing.T) (*fixture, model.Competition) {
	f := newFixture(t)
	race := f.mem.AddCompetition(model.Competition{Name: "Seri Jogja", Category: model.CategoryBoy, BatchCount: 2})
	for i, name := range []string{"Alif", "Fathan", "Haikal", "Athar", "Naufal"} {
		f.add(model.Participant{CompetitionID: race.ID, Name: name, Plate: string(rune('A' + i)), Paid: true})
	}
	f.add(model.Participant{CompetitionID: race.ID, Name: "Belum Bayar", Plate: "Z"})
	return f, race
}

func wheelPath(race model.Competition, suffix string) string {
	return "/admin/lomba/" + strconv.Itoa(race.ID) + "/acak" + suffix
}

func TestWheel_Page(t *testing.T) {
	f, race := newWheelFixture(t)

	rec := f.adminGet(wheelPath(race, ""))
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "5", doc.Find(".remaining-count").Text())
	assert.Contains(t, doc.Find("#wheel-batch-1 h3").Text(), "(0/3)")
	assert.Contains(t, doc.Find("#wheel-batch-2 h3").Text(), "(0/2)")
	assert.Equal(t, 0, doc.Find(`form[action$="/acak/simpan"]`).Length())
}

func TestWheel_SpinOnce(t *testing.T) {
	f, race := newWheelFixture(t)

	rec := f.adminPost(wheelPath(race, "/spin"), url.Values{"order": {""}}, withHTMX)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, 1, doc.Find("#wheel-state").Length())
	assert.Equal(t, 0, doc.Find("h1").Length())
	assert.NotEmpty(t, doc.Find(".drawn-name").Text())
	assert.Equal(t, "4", doc.Find(".remaining-count").Text())
	assert.Equal(t, 1, doc.Find("#wheel-batch-1 li").Length())

	order := doc.Find(`input[name="order"]`).First().AttrOr("value", "")
	assert.NotEmpty(t, order)
	assert.NotContains(t, order, ",")

	// nothing is stored until the draw is saved
	for _, p := range []string{"Alif", "Fathan", "Haikal", "Athar", "Naufal"} {
		assert.Zero(t, f.riders[p].Batch)
	}
}

func TestWheel_SpinAllAndSave(t *testing.T) {
	f, race := newWheelFixture(t)

	rec := f.adminPost(wheelPath(race, "/spin"), url.Values{"all": {"1"}}, withHTMX)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "0", doc.Find(".remaining-count").Text())
	assert.Equal(t, 3, doc.Find("#wheel-batch-1 li").Length())
	assert.Equal(t, 2, doc.Find("#wheel-batch-2 li").Length())

	save := doc.Find(`form[action$="/acak/simpan"]`)
	require.Equal(t, 1, save.Length())
	order := save.Find(`input[name="order"]`).AttrOr("value", "")
	require.Len(t, strings.Split(order, ","), 5)

	rec = f.adminPost(wheelPath(race, "/simpan"), url.Values{"order": {order}, "submission_id": {"wheel-1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/lomba/"+strconv.Itoa(race.ID)+"/olahdata?notice=batches_saved", rec.Header().Get("Location"))

	riders, err := f.mem.ListParticipants(context.Background(), race.ID)
	require.NoError(t, err)
	sizes := map[int]int{}
	for _, p := range riders {
		if p.Paid {
			sizes[p.Batch]++
		} else {
			assert.Zero(t, p.Batch)
		}
	}
	assert.Equal(t, map[int]int{1: 3, 2: 2}, sizes)

	// spinning again once everyone has a batch draws nobody
	rec = f.adminPost(wheelPath(race, "/spin"), url.Values{}, withHTMX)
	doc = document(t, rec)
	assert.Equal(t, "Semua rider sudah mendapat batch.", strings.TrimSpace(doc.Find(".flash.error").Text()))
}

func TestWheel_SaveBeforeDone(t *testing.T) {
	f, race := newWheelFixture(t)

	rec := f.adminPost(wheelPath(race, "/simpan"), url.Values{"order": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, document(t, rec).Find(".flash.error").Text(), "Belum ada rider yang diundi.")

	rec = f.adminPost(wheelPath(race, "/simpan"), url.Values{"order": {strconv.Itoa(f.riders["Alif"].ID)}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, document(t, rec).Find(".flash.error").Text(), "Masih ada 4 rider yang belum diundi.")
	assert.Zero(t, f.rider("Alif").Batch)
}

func TestWheel_StaleOrderStartsOver(t *testing.T) {
	f, race := newWheelFixture(t)

	rec := f.adminPost(wheelPath(race, "/spin"), url.Values{"order": {"999"}}, withHTMX)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "Data rider berubah, undian dimulai ulang.", strings.TrimSpace(doc.Find(".flash.error").Text()))
	assert.Equal(t, "5", doc.Find(".remaining-count").Text())
}

func TestWheel_BadOrder(t *testing.T) {
	f, race := newWheelFixture(t)
	rec := f.adminPost(wheelPath(race, "/spin"), url.Values{"order": {"1,x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWheel_NoBatchCount(t *testing.T) {
	f := newFixture(t)
	f.race.BatchCount = 0
	f.mem.AddCompetition(f.race)
	rec := f.adminGet("/admin/lomba/1/acak")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParseOrder(t *testing.T) {
	order, err := parseOrder(" 3, 1,,2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, order)
	assert.Equal(t, "3,1,2", formatOrder(order))

	order, err = parseOrder("")
	require.NoError(t, err)
	assert.Empty(t, order)

	_, err = parseOrder("1,a")
	assert.Error(t, err)
}
