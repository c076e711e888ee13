package labels

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sanoh-inlab/labelgo/internal/backend"
	"github.com/sanoh-inlab/labelgo/internal/database"
	"github.com/sanoh-inlab/labelgo/internal/models"
	"github.com/sanoh-inlab/labelgo/internal/services/printer"
	"github.com/sanoh-inlab/labelgo/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeBackend struct {
	mu       sync.Mutex
	down     bool
	marked   []int
	syncHits int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Header.Get("Authorization") == "Bearer expired" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if f.down {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	switch r.URL.Path {
	case "/api/labels/prod-headers":
		w.Write([]byte(`{"success": true, "count": 3, "data": [
			{"id": 1, "prod_no": "PRD2410-0001", "prod_index": "A"},
			{"id": 2, "prod_no": "PRD2410-0002", "prod_index": "A"},
			{"id": 3, "prod_no": "prd2411-0007", "prod_index": "B"}
		]}`))
	case "/api/labels/printable":
		w.Write([]byte(`{"success": true, "count": 3,
			"prod_header": {"prod_no": "PRD2410-0001", "prod_index": "A"},
			"data": [
				{"label_id": 30, "part_no": "P1", "lot_no": "LOT-A1", "qty": 10, "print_data": "X30"},
				{"label_id": 10, "part_no": "P1", "lot_no": "LOT-B1", "qty": 10, "print_data": "X10"},
				{"label_id": 20, "part_no": "P1", "lot_no": "lot-a2", "qty": 10, "print_data": ""}
			]}`))
	case "/api/labels/mark-printed":
		var body struct {
			LabelIDs []int `json:"label_ids"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.marked = append(f.marked, body.LabelIDs...)
		w.Write([]byte(`{"success": true, "message": "marked"}`))
	case "/api/labels/sync":
		f.syncHits++
		w.Write([]byte(`{"success": true, "message": "sync started"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.Wrap(gdb)
	require.NoError(t, db.Migrate())
	return db
}

func newTestService(t *testing.T) (*Service, *fakeBackend, *recorder) {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	gen := printer.NewGenerator(nil, printer.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC) },
	})
	rec := &recorder{}
	return NewService(backend.NewClient(srv.URL, time.Second), newTestDB(t), gen, rec), fb, rec
}

func TestListProdHeaders_LiveAndFiltered(t *testing.T) {
	svc, _, _ := newTestService(t)

	list, err := svc.ListProdHeaders(context.Background(), "tok", "", "PRD241")
	require.NoError(t, err)
	assert.False(t, list.Cached)
	assert.Len(t, list.Headers, 3, "prod_no filter is case-insensitive")

	list, err = svc.ListProdHeaders(context.Background(), "tok", "", "0002")
	require.NoError(t, err)
	require.Len(t, list.Headers, 1)
	assert.Equal(t, "PRD2410-0002", list.Headers[0].ProdNo)
}

func TestListProdHeaders_FallsBackToCache(t *testing.T) {
	svc, fb, _ := newTestService(t)

	_, err := svc.ListProdHeaders(context.Background(), "tok", "", "")
	require.NoError(t, err)

	fb.mu.Lock()
	fb.down = true
	fb.mu.Unlock()

	list, err := svc.ListProdHeaders(context.Background(), "tok", "A", "")
	require.NoError(t, err)
	assert.True(t, list.Cached)
	require.Len(t, list.Headers, 2)
	assert.Equal(t, "PRD2410-0002", list.Headers[0].ProdNo)
}

func TestListProdHeaders_UnauthorizedIsNotMasked(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListProdHeaders(context.Background(), "expired", "", "")
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))
}

func TestPrintableLabels_LotFilter(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.PrintableLabels(context.Background(), "tok", "PRD2410-0001", "lot-a")
	require.NoError(t, err)
	assert.Equal(t, []int{30, 20}, models.LabelIDs(got.Labels))

	_, err = svc.PrintableLabels(context.Background(), "tok", "", "")
	assert.ErrorIs(t, err, ErrProdNoRequired)
}

func TestPrint_SelectionKeepsBackendOrder(t *testing.T) {
	svc, _, rec := newTestService(t)

	res, err := svc.Print(context.Background(), "tok", PrintRequest{
		ProdNo:      "PRD2410-0001",
		LabelIDs:    []int{20, 30},
		RequestedBy: "operator1",
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(res.PDF[:4]))

	ids, err := res.Job.GetLabelIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{30, 20}, ids)
	assert.Equal(t, 1, res.Job.PageCount)
	assert.Equal(t, len(res.PDF), res.Job.ByteSize)
	assert.Equal(t, "A", res.Job.ProdIndex)

	jobs, err := svc.RecentJobs(0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.PrintJobGenerated, jobs[0].Status)
	assert.Equal(t, "operator1", jobs[0].RequestedBy)
	assert.Equal(t, []string{websocket.EventPrintCompleted}, rec.events)
}

func TestPrint_ExplicitLabels(t *testing.T) {
	svc, _, _ := newTestService(t)

	labels := []models.LabelRecord{{LabelID: 1, PartNo: "P"}, {LabelID: 1, PartNo: "P"}}
	res, err := svc.Print(context.Background(), "tok", PrintRequest{ProdNo: "PRD-X", Labels: labels})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Job.LabelCount, "duplicate ids are printed twice")
	assert.Equal(t, "PRD-X", res.Job.ProdNo)
}

func TestPrint_EmptySelection(t *testing.T) {
	svc, _, rec := newTestService(t)

	_, err := svc.Print(context.Background(), "tok", PrintRequest{ProdNo: "PRD2410-0001"})
	assert.ErrorIs(t, err, ErrNoLabelsSelected)

	_, err = svc.Print(context.Background(), "tok", PrintRequest{ProdNo: "PRD2410-0001", LabelIDs: []int{999}})
	assert.ErrorIs(t, err, ErrNoLabelsSelected)

	_, err = svc.Print(context.Background(), "tok", PrintRequest{LabelIDs: []int{10}})
	assert.ErrorIs(t, err, ErrProdNoRequired)

	assert.Empty(t, rec.events)
}

func TestPrint_CancelledRecordsFailure(t *testing.T) {
	svc, _, rec := newTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Print(ctx, "tok", PrintRequest{
		ProdNo: "PRD-X",
		Labels: []models.LabelRecord{{LabelID: 1, PrintData: "A"}},
	})
	require.ErrorIs(t, err, context.Canceled)

	jobs, err := svc.RecentJobs(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.PrintJobFailed, jobs[0].Status)
	assert.NotEmpty(t, jobs[0].Error)
	assert.Equal(t, []string{websocket.EventPrintFailed}, rec.events)
}

func TestMarkPrinted(t *testing.T) {
	svc, fb, rec := newTestService(t)

	res, err := svc.Print(context.Background(), "tok", PrintRequest{ProdNo: "PRD2410-0001", LabelIDs: []int{10}})
	require.NoError(t, err)

	require.NoError(t, svc.MarkPrinted(context.Background(), "tok", []int{10}, res.Job.ID))
	assert.Equal(t, []int{10}, fb.marked)

	var job models.PrintJob
	require.NoError(t, svc.db.First(&job, "id = ?", res.Job.ID).Error)
	assert.Equal(t, models.PrintJobMarkedPrinted, job.Status)
	assert.NotNil(t, job.MarkedPrintedAt)
	assert.Contains(t, rec.events, websocket.EventLabelsMarkedPrinted)

	assert.ErrorIs(t, svc.MarkPrinted(context.Background(), "tok", nil, ""), ErrNoLabelsSelected)
}

func TestTriggerSyncRefreshesCache(t *testing.T) {
	svc, fb, rec := newTestService(t)

	msg, err := svc.TriggerSync(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "sync started", msg)
	assert.Equal(t, 1, fb.syncHits)

	cached, err := svc.CachedHeaders("")
	require.NoError(t, err)
	assert.Len(t, cached, 3)
	assert.Equal(t, []string{websocket.EventSyncCompleted}, rec.events)
}

func TestSyncServiceRunOnceUpserts(t *testing.T) {
	svc, _, _ := newTestService(t)
	loop := NewSyncService(svc, "service-token", time.Minute)

	assert.Equal(t, 3, loop.RunOnce())
	assert.Equal(t, 3, loop.RunOnce())

	var count int64
	require.NoError(t, svc.db.Model(&models.ProdHeader{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSyncServiceStopTwice(t *testing.T) {
	svc, _, _ := newTestService(t)
	loop := NewSyncService(svc, "service-token", time.Hour)
	loop.Start()

	assert.NotPanics(t, func() {
		loop.Stop()
		loop.Stop()
	})
}
