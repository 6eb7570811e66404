package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Panz66/febw/internal/bracket"
	"github.com/Panz66/febw/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func sampleBracket(t *testing.T) bracket.Bracket {
	t.Helper()
	riders := []model.Participant{}
	for i := 1; i <= 4; i++ {
		p := model.Participant{
			ID:        i,
			Name:      fmt.Sprintf("Rider %d", i),
			Plate:     fmt.Sprintf("P%d", i),
			Community: "Bandung",
			Batch:     (i-1)%2 + 1,
			Point1:    i,
		}
		if i == 1 {
			p.Sessions = []model.SessionPoint{{Session: 1, Finish: 1, MatchName: "Heat A"}}
		}
		riders = append(riders, p)
	}
	b, err := bracket.Build(model.Competition{ID: 3, Name: "Seri 1", BatchCount: 2}, riders)
	require.NoError(t, err)
	return b
}

func TestRows(t *testing.T) {
	rows := Rows(sampleBracket(t))
	require.Len(t, rows, 1+4+4)
	assert.Equal(t, Header, rows[0])

	// batch 1 = riders 1,3; batch 2 = riders 2,4; primary pool = 1 and 2
	assert.Equal(t, []string{"1", "Utama", "1", "Heat A", "1", "1", "Rider 1", "P1", "Bandung", "1", "2", "1", "1"}, rows[1])
	assert.Equal(t, []string{"1", "Utama", "1", "Heat A", "2", "2", "Rider 2", "P2", "Bandung", "1", "2", "-", "2"}, rows[2])
	assert.Equal(t, "Sekunder", rows[3][1])
	assert.Equal(t, bracket.UnnamedMatch, rows[3][3])
	assert.Equal(t, "2", rows[5][0])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBracket(t)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 9)
	assert.Equal(t, "Sesi", records[0][0])
}

func TestToken(t *testing.T) {
	tok := Token("secret", 3)
	assert.Len(t, tok, 64)
	assert.True(t, VerifyToken("secret", 3, tok))
	assert.False(t, VerifyToken("secret", 4, tok))
	assert.False(t, VerifyToken("other", 3, tok))
	assert.False(t, VerifyToken("", 3, Token("", 3)))
	assert.False(t, VerifyToken("secret", 3, ""))
}

func TestSheetsPublisher_Publish(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		body  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			calls = append(calls, "get")
			_, _ = io.WriteString(w, `{"spreadsheetId": "sheet-id", "sheets": [{"properties": {"title": "Lomba 1"}}]}`)
		case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			calls = append(calls, "add-sheet")
			_, _ = io.WriteString(w, `{}`)
		case strings.HasSuffix(r.URL.Path, ":clear"):
			calls = append(calls, "clear")
			_, _ = io.WriteString(w, `{}`)
		case r.Method == http.MethodPut:
			calls = append(calls, "update")
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			_, _ = io.WriteString(w, `{"updatedRange": "'Lomba 3'!A1:M9"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	pub, err := NewSheetsPublisherWithOptions(context.Background(), "sheet-id",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	updated, err := pub.Publish(context.Background(), sampleBracket(t))
	require.NoError(t, err)
	assert.Equal(t, "'Lomba 3'!A1:M9", updated)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"get", "add-sheet", "clear", "update"}, calls)
	assert.Contains(t, body, "Rider 4")
}
