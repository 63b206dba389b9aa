package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const spreadsheetID = "sheet-1"

var _ repository.SlotRepository = (*Repository)(nil)

// fakeSheets минимальный Sheets API: чтение, запись и дописывание значений
type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	data     map[string][][]string
	writes   int
	failMeta bool
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{data: make(map[string][][]string)}
}

func (f *fakeSheets) addSheet(title string, rows ...[]string) {
	f.titles = append(f.titles, title)
	f.data[title] = rows
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": msg},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type a1 struct {
	title          string
	whole          bool
	c0, r0, c1, r1 int
}

func parseCell(ref string) (int, int) {
	i := strings.IndexAny(ref, "0123456789")
	col, _ := columnIndex(ref[:i])
	row, _ := strconv.Atoi(ref[i:])
	return col, row
}

func parseA1(rng string) a1 {
	title, cells, found := strings.Cut(rng, "!")
	title = strings.ReplaceAll(strings.Trim(title, "'"), "''", "'")
	if !found {
		return a1{title: title, whole: true}
	}
	from, to, ok := strings.Cut(cells, ":")
	if !ok {
		to = from
	}
	c0, r0 := parseCell(from)
	c1, r1 := parseCell(to)
	return a1{title: title, c0: c0, r0: r0, c1: c1, r1: r1}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	base := "/v4/spreadsheets/" + spreadsheetID
	if r.URL.Path == base && r.Method == http.MethodGet {
		if f.failMeta {
			writeAPIError(w, http.StatusInternalServerError, "backend error")
			return
		}
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		writeJSON(w, map[string]any{"sheets": sheets})
		return
	}

	rng := strings.TrimPrefix(r.URL.Path, base+"/values/")
	if rng == r.URL.Path {
		writeAPIError(w, http.StatusNotFound, "not found")
		return
	}

	if strings.HasSuffix(rng, ":append") {
		ref := parseA1(strings.TrimSuffix(rng, ":append"))
		var body struct {
			Values [][]string `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.data[ref.title] = append(f.data[ref.title], body.Values...)
		writeJSON(w, map[string]any{})
		return
	}

	ref := parseA1(rng)
	rows, ok := f.data[ref.title]
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+rng)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if ref.whole {
			writeJSON(w, map[string]any{"range": rng, "values": rows})
			return
		}
		var out [][]string
		if idx := ref.r0 - 1; idx < len(rows) {
			row := rows[idx]
			var sub []string
			for c := ref.c0; c <= ref.c1 && c < len(row); c++ {
				sub = append(sub, row[c])
			}
			out = append(out, sub)
		}
		writeJSON(w, map[string]any{"range": rng, "values": out})
	case http.MethodPut:
		var body struct {
			Values [][]string `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		row := rows[ref.r0-1]
		for len(row) <= ref.c1 {
			row = append(row, "")
		}
		copy(row[ref.c0:], body.Values[0])
		rows[ref.r0-1] = row
		f.writes++
		writeJSON(w, map[string]any{"updatedRange": rng})
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method")
	}
}

func newTestRepo(t *testing.T, fake *fakeSheets, pending string) *Repository {
	t.Helper()
	return newTestRepoWithColumn(t, fake, pending, "C")
}

func newTestRepoWithColumn(t *testing.T, fake *fakeSheets, pending, statusColumn string) *Repository {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	repo, err := New(context.Background(), Config{
		SpreadsheetID: spreadsheetID,
		PendingSheet:  pending,
		StatusColumn:  statusColumn,
	}, zap.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

var testHeader = []string{"№", "time", "status", "name", "subject", "topic", "contacts"}

func TestListTablesSkipsLedger(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("Заявки", []string{"date", "time", "status"})
	fake.addSheet("2024-05-01", testHeader)
	fake.addSheet("2024-05-02", testHeader)

	repo := newTestRepo(t, fake, "")
	tables, err := repo.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-01", "2024-05-02"}, tables)

	repo = newTestRepo(t, fake, "2024-05-02")
	tables, err = repo.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Заявки", "2024-05-01"}, tables)
}

func TestListTablesUnavailable(t *testing.T) {
	fake := newFakeSheets()
	fake.failMeta = true
	repo := newTestRepo(t, fake, "")

	_, err := repo.ListTables(context.Background())
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}

func TestListRowsByHeader(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("ledger")
	fake.addSheet("2024-05-01",
		testHeader,
		[]string{"1", "10:00", "Available"},
		[]string{"2", "11:00", "booked", "Пётр", "Алгебра", "Дроби", "Telegram: Пётр"},
		[]string{"3", "12:00"},
	)
	repo := newTestRepo(t, fake, "ledger")

	rows, err := repo.ListRows(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, model.Slot{Row: 2, Time: "10:00", Status: "Available"}, rows[0])
	assert.Equal(t, 3, rows[1].Row)
	assert.Equal(t, "Пётр", rows[1].BookedBy)
	assert.Equal(t, "Telegram: Пётр", rows[1].Contacts)
	assert.False(t, rows[2].Status.IsAvailable())
	assert.Equal(t, []string{"10:00"}, model.AvailableTimes(rows))
}

func TestListRowsUnknownSheet(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("ledger")
	repo := newTestRepo(t, fake, "ledger")

	_, err := repo.ListRows(context.Background(), "2099-01-01")
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
}

func TestListRowsStatusColumnLayout(t *testing.T) {
	shifted := []string{"time", "status", "name", "subject", "topic", "contacts"}

	t.Run("status column differs from config", func(t *testing.T) {
		fake := newFakeSheets()
		fake.addSheet("ledger")
		fake.addSheet("2024-05-01", shifted, []string{"10:00", "available"})
		repo := newTestRepo(t, fake, "ledger")

		_, err := repo.ListRows(context.Background(), "2024-05-01")
		assert.ErrorIs(t, err, repository.ErrSlotNotFound)
	})

	t.Run("status column matches config", func(t *testing.T) {
		fake := newFakeSheets()
		fake.addSheet("ledger")
		fake.addSheet("2024-05-01", shifted, []string{"10:00", "available"})
		repo := newTestRepoWithColumn(t, fake, "ledger", "B")
		ctx := context.Background()

		rows, err := repo.ListRows(ctx, "2024-05-01")
		require.NoError(t, err)
		assert.Equal(t, []string{"10:00"}, model.AvailableTimes(rows))

		f := model.BookingFields{Status: model.SlotStatusBooked, Name: "Анна", Subject: "Алгебра", Topic: "Дроби", Contacts: "Telegram: Анна"}
		require.NoError(t, repo.WriteBookingFields(ctx, "2024-05-01", rows[0].Row, f))
		assert.Equal(t,
			[]string{"10:00", "booked", "Анна", "Алгебра", "Дроби", "Telegram: Анна"},
			fake.data["2024-05-01"][1])
	})
}

func TestWriteBookingFields(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("ledger")
	fake.addSheet("2024-05-01",
		testHeader,
		[]string{"1", "10:00", "available"},
	)
	repo := newTestRepo(t, fake, "ledger")
	ctx := context.Background()

	f := model.BookingFields{Status: model.SlotStatusBooked, Name: "Анна", Subject: "Алгебра", Topic: "Дроби", Contacts: "Telegram: Анна"}
	require.NoError(t, repo.WriteBookingFields(ctx, "2024-05-01", 2, f))
	assert.Equal(t,
		[]string{"1", "10:00", "booked", "Анна", "Алгебра", "Дроби", "Telegram: Анна"},
		fake.data["2024-05-01"][1])

	err := repo.WriteBookingFields(ctx, "2024-05-01", 2, f)
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	err = repo.WriteBookingFields(ctx, "2024-05-01", 7, f)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
	assert.Equal(t, 1, fake.writes)
}

func TestWriteBookingFieldsSerialized(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("ledger")
	fake.addSheet("2024-05-01", testHeader, []string{"1", "10:00", "available"})
	repo := newTestRepo(t, fake, "ledger")
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WriteBookingFields(ctx, "2024-05-01", 2, model.BookingFields{Status: model.SlotStatusBooked, Name: "x"})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, fake.writes)
}

func TestAppendPendingRequestToFirstSheet(t *testing.T) {
	fake := newFakeSheets()
	fake.addSheet("Заявки", []string{"date", "time", "status", "name", "subject", "topic", "contacts"})
	fake.addSheet("2024-05-01", testHeader)
	repo := newTestRepo(t, fake, "")

	req := model.PendingRequest{Date: "2024-05-02", Time: "14:05", Status: model.SlotStatusPending, Name: "Анна", Subject: "Алгебра", Topic: "Дроби", Contacts: "Telegram: Анна"}
	require.NoError(t, repo.AppendPendingRequest(context.Background(), req))

	ledger := fake.data["Заявки"]
	require.Len(t, ledger, 2)
	assert.Equal(t, req.Values(), ledger[1])
}

func TestColumnHelpers(t *testing.T) {
	for letters, want := range map[string]int{"A": 0, "C": 2, "z": 25, "AA": 26, "AZ": 51} {
		got, err := columnIndex(letters)
		require.NoError(t, err)
		assert.Equal(t, want, got, letters)
		assert.Equal(t, strings.ToUpper(letters), columnLetter(want))
	}

	_, err := columnIndex("")
	assert.Error(t, err)
	_, err = columnIndex("C1")
	assert.Error(t, err)

	assert.Equal(t, "'it''s'!C5:G5", rowRange("it's", 2, 6, 5))
}

func TestParseHeaderRequiresColumns(t *testing.T) {
	h, err := parseHeader([]any{"Time ", "x", "STATUS"})
	require.NoError(t, err)
	assert.Equal(t, 0, h.time)
	assert.Equal(t, 2, h.status)

	_, err = parseHeader([]any{"time"})
	assert.Error(t, err)
}
